// Package layout positions the visible part of a hierarchy as a tidy tree.
//
// # Coordinates
//
// Positions use two axes. The rank axis is a pure function of depth:
//
//	rank = depth × RankSpacing
//
// so every generation sits in its own fixed band regardless of subtree
// size. The order axis is computed with the linear-time tidy tree of
// Buchheim, Jünger and Leipert (an improvement of Walker's algorithm):
//
//   - a parent is centered over the span of its children
//   - adjacent nodes of one rank keep a minimum separation
//   - disjoint subtrees of one rank never overlap
//
// The root is placed at order 0.
//
// # Separation
//
// The minimum distance between the centers of two adjacent nodes a and b is
//
//	factor × (footprint(a) + footprint(b)) / 2
//
// where factor is [Config.SiblingSeparation] for nodes that share a parent
// and [Config.CousinSeparation] otherwise. A node's footprint is its extent
// along the order axis: the box height in the default horizontal
// orientation, or the box width (honoring per-person overrides) in the
// vertical one. With default sizes two siblings are 40.8 apart and two
// cousins 68.
//
// # Determinism
//
// Layout depends only on the visible set, its sibling order and the
// configuration. It reads no previous positions and uses no randomness,
// so repeated passes over the same set yield bit-identical results.
package layout
