package session

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/scene"
)

func sample() *family.Record {
	return &family.Record{Name: "root", Bio: "The **first** of us.", Children: []*family.Record{
		{Name: "A", Children: []*family.Record{{Name: "a1"}, {Name: "a2", Bio: "Emigrated."}}},
		{Name: "B", Children: []*family.Record{{Name: "b1"}, {Name: "b2"}}},
	}}
}

func newSession(t *testing.T) (*Session, *scene.Plan) {
	t.Helper()
	s, plan, err := New(sample(), DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, plan
}

func rendered(s *Session) []hierarchy.ID {
	var ids []hierarchy.ID
	for _, n := range s.Snapshot().Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestNew(t *testing.T) {
	s, plan := newSession(t)

	if s.ID == "" {
		t.Error("ID is empty")
	}
	if plan.Count(scene.Enter) != 3 || plan.Source != 0 {
		t.Errorf("initial plan: %d enters from %d, want 3 from root", plan.Count(scene.Enter), plan.Source)
	}
	if got := rendered(s); !slices.Equal(got, []hierarchy.ID{0, 1, 4}) {
		t.Errorf("rendered = %v, want [0 1 4]", got)
	}
	if s.LastPlan() != plan {
		t.Error("LastPlan() is not the initial plan")
	}
	if s.IsExpired() {
		t.Error("new session is expired")
	}
}

func TestNewInitialDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  int
	}{
		{0, 1},
		{1, 3},
		{2, 7},
		{-1, 7},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.InitialDepth = tt.depth
		s, _, err := New(sample(), opts)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if got := len(rendered(s)); got != tt.want {
			t.Errorf("InitialDepth %d renders %d nodes, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestNewMalformed(t *testing.T) {
	_, _, err := New(&family.Record{Name: ""}, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Errorf("New() error = %v, want MALFORMED_INPUT", err)
	}
}

func TestClick(t *testing.T) {
	s, _ := newSession(t)

	plan, err := s.Click(1)
	if err != nil {
		t.Fatalf("Click(A) error = %v", err)
	}
	if plan.Source != 1 || plan.Count(scene.Enter) != 2 {
		t.Errorf("expand plan: source %d, %d enters", plan.Source, plan.Count(scene.Enter))
	}
	if got := rendered(s); !slices.Equal(got, []hierarchy.ID{0, 1, 2, 3, 4}) {
		t.Errorf("rendered = %v", got)
	}

	plan, err = s.Click(1)
	if err != nil {
		t.Fatalf("Click(A) error = %v", err)
	}
	if plan.Count(scene.Exit) != 2 {
		t.Errorf("collapse plan exits = %d, want 2", plan.Count(scene.Exit))
	}

	// leaves accept clicks and change nothing
	s.Click(4)
	plan, err = s.Click(5)
	if err != nil {
		t.Fatalf("Click(leaf) error = %v", err)
	}
	if plan.Count(scene.Enter)+plan.Count(scene.Exit) != 0 {
		t.Errorf("leaf click produced enters or exits: %+v", plan.Nodes)
	}
}

func TestClickView(t *testing.T) {
	s, _ := newSession(t)

	for _, wantCollapsed := range []bool{false, true} {
		var (
			collapsed bool
			source    hierarchy.ID
		)
		err := s.ClickView(1, func(tree *hierarchy.Tree, _ *scene.Scene, plan *scene.Plan) {
			n, _ := tree.Node(1)
			collapsed = n.IsCollapsed()
			source = plan.Source
		})
		if err != nil {
			t.Fatalf("ClickView(A) error = %v", err)
		}
		if collapsed != wantCollapsed || source != 1 {
			t.Errorf("ClickView(A) saw collapsed %v source %d, want %v 1", collapsed, source, wantCollapsed)
		}
	}

	called := false
	if err := s.ClickView(99, func(*hierarchy.Tree, *scene.Scene, *scene.Plan) { called = true }); err == nil {
		t.Error("ClickView(unknown) error = nil")
	}
	if called {
		t.Error("ClickView(unknown) ran its callback")
	}

	s.ViewPlan(func(_ *hierarchy.Tree, _ *scene.Scene, plan *scene.Plan) {
		if plan != s.last || plan.Count(scene.Exit) != 2 {
			t.Errorf("ViewPlan plan = %+v, want the last collapse", plan)
		}
	})
}

func TestClickErrors(t *testing.T) {
	s, _ := newSession(t)

	if _, err := s.Click(99); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Click(99) error = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := s.Click(2); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Click(hidden) error = %v, want INVALID_INPUT", err)
	}
	if _, err := s.ClickByName("nobody"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("ClickByName(nobody) error = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := s.ClickByName("B"); err != nil {
		t.Errorf("ClickByName(B) error = %v", err)
	}
}

func TestReveal(t *testing.T) {
	s, _ := newSession(t)

	plan, err := s.Reveal(3)
	if err != nil {
		t.Fatalf("Reveal() error = %v", err)
	}
	if plan.Source != 1 {
		t.Errorf("Reveal source = %d, want A", plan.Source)
	}
	op, ok := plan.Node(3)
	if !ok || op.Kind != scene.Enter {
		t.Errorf("a2 op = %+v, want enter", op)
	}
	if _, err := s.Reveal(42); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Reveal(42) error = %v", err)
	}
}

func TestHover(t *testing.T) {
	s, _ := newSession(t)

	bio, err := s.Hover(0)
	if err != nil || bio != "The **first** of us." {
		t.Errorf("Hover(root) = %q, %v", bio, err)
	}
	bio, err = s.Hover(1)
	if err != nil || bio != "" {
		t.Errorf("Hover(A) = %q, %v; want no bio", bio, err)
	}
	if _, err := s.Hover(3); err == nil {
		t.Error("Hover(hidden) error = nil")
	}
	if p, ok := s.Person(3); !ok || p.Bio != "Emigrated." {
		t.Errorf("Person(a2) = %+v, %v", p, ok)
	}
}

func TestExpiry(t *testing.T) {
	opts := DefaultOptions()
	opts.TTL = time.Millisecond
	s, _, err := New(sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if !s.IsExpired() {
		t.Error("session not expired after TTL")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s, _ := newSession(t)

	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got, _ := store.Get(ctx, "missing"); got != nil {
		t.Error("Get(missing) returned a session")
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("Get() after Delete returned a session")
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	short := DefaultOptions()
	short.TTL = time.Millisecond
	expired, _, _ := New(sample(), short)
	alive, _ := newSession(t)
	store.Set(ctx, expired)
	store.Set(ctx, alive)
	time.Sleep(5 * time.Millisecond)

	n, err := store.Cleanup(ctx)
	if err != nil || n != 1 {
		t.Errorf("Cleanup() = %d, %v; want 1", n, err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if got, _ := store.Get(ctx, alive.ID); got != alive {
		t.Error("live session was removed")
	}
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	first, _ := newSession(t)
	time.Sleep(time.Millisecond)
	second, _ := newSession(t)
	third, _ := newSession(t)
	store.Set(ctx, first)
	store.Set(ctx, second)
	store.Set(ctx, third)

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if got, _ := store.Get(ctx, first.ID); got != nil {
		t.Error("oldest session was not evicted")
	}
}
