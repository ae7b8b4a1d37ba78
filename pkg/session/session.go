// Package session owns interactive diagram sessions.
//
// A [Session] is created when a family tree is loaded and lives until it
// expires or is deleted. It owns the hierarchy and the scene, applies
// clicks (toggle, then render with the clicked node as source) and answers
// hover requests with the person's bio.
//
// # Usage
//
//	sess, plan, err := session.New(rec, session.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	host.Apply(plan)
//
//	plan, err = sess.Click(id)
//
// Sessions serialize their own cycles, so concurrent clicks from one
// client are applied one after another.
//
// # Storage
//
// The [Store] interface keeps sessions by ID with expiry. [MemoryStore]
// is the in-process implementation used by the HTTP host.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/scene"
)

// Default durations and depths.
const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 2 * time.Hour

	// DefaultInitialDepth shows the root and its children on load.
	DefaultInitialDepth = 1
)

// Options configure a new session.
type Options struct {
	Layout    layout.Config
	Connector scene.Connector
	Duration  time.Duration
	Easing    scene.Easing
	// InitialDepth is the number of generations shown below the root.
	// Negative values show the whole tree.
	InitialDepth int
	TTL          time.Duration
}

// DefaultOptions returns the options of the classic chart.
func DefaultOptions() Options {
	return Options{
		Layout:       layout.DefaultConfig(),
		Connector:    scene.Elbow,
		Duration:     scene.DefaultDuration,
		Easing:       scene.CubicInOut,
		InitialDepth: DefaultInitialDepth,
		TTL:          DefaultTTL,
	}
}

// Session is one interactive view of a family tree.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
	ttl       time.Duration
	tree      *hierarchy.Tree
	scene     *scene.Scene
	last      *scene.Plan
}

// New builds the tree, collapses it below the initial depth and renders
// it once with the root as source. The first plan is returned.
func New(rec *family.Record, opts Options) (*Session, *scene.Plan, error) {
	tree, err := hierarchy.Build(rec)
	if err != nil {
		return nil, nil, err
	}
	if opts.InitialDepth >= 0 {
		tree.CollapseBelow(opts.InitialDepth)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	sceneOpts := []scene.Option{scene.WithDuration(opts.Duration)}
	if opts.Connector != "" {
		sceneOpts = append(sceneOpts, scene.WithConnector(opts.Connector))
	}
	if opts.Easing != nil {
		sceneOpts = append(sceneOpts, scene.WithEasing(opts.Easing))
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		expiresAt: now.Add(opts.TTL),
		ttl:       opts.TTL,
		tree:      tree,
		scene:     scene.New(tree, layout.New(opts.Layout), sceneOpts...),
	}
	plan, err := s.scene.Render(tree.Root())
	if err != nil {
		return nil, nil, err
	}
	s.last = plan
	return s, plan, nil
}

// Click toggles node id and renders with it as source.
//
// Clicking a hidden or unknown node is an error. If rendering fails the
// toggle is undone, so the tree keeps matching the last rendered scene.
// Clicking a leaf renders a plan of updates only.
func (s *Session) Click(id hierarchy.ID) (*scene.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.click(id)
}

// ClickView clicks id and calls fn with the tree, the scene and the new
// plan before the session is released, so fn reads the state the plan was
// rendered from.
func (s *Session) ClickView(id hierarchy.ID, fn func(*hierarchy.Tree, *scene.Scene, *scene.Plan)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.click(id)
	if err != nil {
		return err
	}
	fn(s.tree, s.scene, plan)
	return nil
}

func (s *Session) click(id hierarchy.ID) (*scene.Plan, error) {
	if err := s.checkVisible(id); err != nil {
		return nil, err
	}
	toggled := s.tree.Toggle(id)
	plan, err := s.scene.Render(id)
	if err != nil {
		if toggled {
			s.tree.Toggle(id)
		}
		return nil, err
	}
	s.touch()
	s.last = plan
	return plan, nil
}

// Find returns the first node with the given name.
func (s *Session) Find(name string) (hierarchy.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tree.FindByName(name)
	if !ok {
		return 0, errors.New(errors.ErrCodeNodeNotFound, "no person named %q", name)
	}
	return id, nil
}

// ClickByName clicks the first node with the given name.
func (s *Session) ClickByName(name string) (*scene.Plan, error) {
	id, err := s.Find(name)
	if err != nil {
		return nil, err
	}
	return s.Click(id)
}

// Reveal expands the ancestors of id and renders with the topmost
// expanded ancestor as source. Revealing a visible node renders nothing
// new and returns a plan of updates.
func (s *Session) Reveal(id hierarchy.ID) (*scene.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Has(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	changed := s.tree.Reveal(id)
	source := id
	if len(changed) > 0 {
		source = changed[0]
	}
	plan, err := s.scene.Render(source)
	if err != nil {
		for _, a := range changed {
			s.tree.Collapse(a)
		}
		return nil, err
	}
	s.touch()
	s.last = plan
	return plan, nil
}

// Hover returns the bio of node id, "" when it has none.
func (s *Session) Hover(id hierarchy.ID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVisible(id); err != nil {
		return "", err
	}
	n, _ := s.tree.Node(id)
	return n.Person.Bio, nil
}

// Snapshot returns the scene at rest.
func (s *Session) Snapshot() scene.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Snapshot()
}

// LastPlan returns the plan of the latest cycle.
func (s *Session) LastPlan() *scene.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Person returns the payload of node id.
func (s *Session) Person(id hierarchy.ID) (family.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.tree.Node(id)
	if !ok {
		return family.Person{}, false
	}
	return n.Person, true
}

// View runs fn with the tree and scene while holding the session lock.
// fn must not retain either.
func (s *Session) View(fn func(*hierarchy.Tree, *scene.Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree, s.scene)
}

// ViewPlan is View with the most recent plan.
func (s *Session) ViewPlan(fn func(*hierarchy.Tree, *scene.Scene, *scene.Plan)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree, s.scene, s.last)
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// ExpiresAt returns the expiry time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

func (s *Session) touch() {
	s.expiresAt = time.Now().Add(s.ttl)
}

func (s *Session) checkVisible(id hierarchy.ID) error {
	if !s.tree.Has(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	if !s.tree.IsVisible(id) {
		return errors.New(errors.ErrCodeInvalidInput, "node %d is not visible", id)
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
