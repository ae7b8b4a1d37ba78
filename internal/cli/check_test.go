package cli

import (
	"testing"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
)

func TestSummarize(t *testing.T) {
	tree, err := hierarchy.Build(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	got := summarize(tree)

	want := treeSummary{Persons: 7, Generations: 3, Widest: 4, WidestDepth: 2, Bios: 1, Spouses: 1}
	if got.Persons != want.Persons || got.Generations != want.Generations ||
		got.Widest != want.Widest || got.WidestDepth != want.WidestDepth ||
		got.Bios != want.Bios || got.Spouses != want.Spouses {
		t.Errorf("summarize() = %+v, want %+v", got, want)
	}
	if len(got.Duplicates) != 0 {
		t.Errorf("duplicates = %v, want none", got.Duplicates)
	}
}

func TestSummarizeDuplicates(t *testing.T) {
	rec := &family.Record{Name: "Root", Children: []*family.Record{
		{Name: "Anna", Children: []*family.Record{{Name: "Karl"}}},
		{Name: "karl"},
	}}
	tree, err := hierarchy.Build(rec)
	if err != nil {
		t.Fatal(err)
	}
	got := summarize(tree)
	if len(got.Duplicates) != 1 || got.Duplicates[0] != "karl" {
		t.Errorf("duplicates = %v, want [karl]", got.Duplicates)
	}
	if got.Widest != 2 || got.WidestDepth != 1 {
		t.Errorf("widest = %d at %d, want 2 at 1", got.Widest, got.WidestDepth)
	}
}
