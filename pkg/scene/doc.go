// Package scene reconciles successive layouts of a hierarchy into animated
// transitions.
//
// # Cycle
//
// A [Scene] remembers which nodes and links it rendered last. Each call to
// [Scene.Render] runs one cycle:
//
//  1. collect the visible set and lay it out
//  2. diff nodes by identity into enters, updates and exits
//  3. diff links (keyed by their child node) the same way
//  4. settle the tree so the new positions become the next start points
//
// The result is a [Plan]: every operation carries the start and end state
// of one element. Entering nodes start at the previous position of the
// source node (the one that was clicked) so they grow out of it; exiting
// nodes shrink back into the source's new position and fade out.
//
// # Hosts
//
// A plan is independent of any drawing surface. [Plan.Apply] drives a
// [Host] that creates, moves and removes elements; [Plan.Frame] samples
// the transition at any progress for hosts that draw frames themselves.
// Elements are addressed by node identity, so a newer plan simply
// retargets elements that are still moving.
package scene
