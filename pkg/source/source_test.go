package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

const sample = `name: Root
children:
  - name: A
  - name: B
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.yaml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	tests := []struct {
		locator string
		mongo   bool
	}{
		{"family.yaml", false},
		{"data/family.json", false},
		{"mongodb://localhost:27017/#Root", true},
		{"mongodb+srv://cluster.example.net/?retryWrites=true#Root", true},
	}
	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			l, err := Open(tt.locator, Options{})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			_, isMongo := l.(*Mongo)
			if isMongo != tt.mongo {
				t.Errorf("Open(%q) = %T", tt.locator, l)
			}
		})
	}

	if _, err := Open("", Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(\"\") err = %v, want INVALID_PATH", err)
	}
}

func TestNewMongo(t *testing.T) {
	m, err := NewMongo("mongodb://db:27017/?appName=lineage#Emperor%20Wilhelm", Options{MongoCollection: "trees"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Family() != "Emperor Wilhelm" {
		t.Errorf("Family() = %q", m.Family())
	}
	if m.uri != "mongodb://db:27017/?appName=lineage" {
		t.Errorf("uri = %q, fragment should be stripped", m.uri)
	}
	db, coll := m.Namespace()
	if db != "lineage" || coll != "trees" {
		t.Errorf("Namespace() = %s.%s", db, coll)
	}
	if m.Locator() != "mongodb://db:27017/?appName=lineage#Emperor%20Wilhelm" {
		t.Errorf("Locator() = %q", m.Locator())
	}
}

func TestFileLoad(t *testing.T) {
	l, err := NewFile(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	rec, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Name != "Root" || len(rec.Children) != 2 {
		t.Errorf("Load = %+v", rec)
	}

	missing, _ := NewFile(filepath.Join(t.TempDir(), "none.yaml"))
	if _, err := missing.Load(context.Background()); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

type countingLoader struct {
	calls int
	rec   *family.Record
}

func (c *countingLoader) Load(context.Context) (*family.Record, error) {
	c.calls++
	return c.rec, nil
}

func (c *countingLoader) Locator() string { return "counting" }

func TestCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingLoader{rec: &family.Record{
		Name:     "Root",
		Spouse:   &family.Spouse{Name: "Anna"},
		Children: []*family.Record{{Name: "A"}},
	}}
	l := NewCached(inner, fc, nil, nil)

	for i := 0; i < 3; i++ {
		rec, err := l.Load(ctx)
		if err != nil {
			t.Fatalf("Load #%d: %v", i, err)
		}
		if rec.Name != "Root" || rec.Spouse == nil || rec.Spouse.Name != "Anna" || len(rec.Children) != 1 {
			t.Fatalf("Load #%d = %+v", i, rec)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner loader called %d times, want 1", inner.calls)
	}
	if l.Locator() != "counting" {
		t.Errorf("Locator() = %q", l.Locator())
	}

	_ = fc.Set(ctx, cache.NewDefaultKeyer().RecordKey("counting"), []byte("garbage"), time.Minute)
	if _, err := l.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("corrupt entry should reload, calls = %d", inner.calls)
	}
}
