package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// treeSummary describes the shape of a family tree.
type treeSummary struct {
	Persons     int
	Generations int
	Widest      int // persons in the widest generation
	WidestDepth int
	Bios        int
	Spouses     int
	Duplicates  []string // names that appear more than once
}

func summarize(t *hierarchy.Tree) treeSummary {
	var s treeSummary
	perDepth := map[int]int{}
	names := map[string]int{}
	for n := range t.All() {
		s.Persons++
		perDepth[n.Depth]++
		s.Generations = max(s.Generations, n.Depth+1)
		if n.Person.Bio != "" {
			s.Bios++
		}
		if n.Person.HasSpouse() {
			s.Spouses++
		}
		names[strings.ToLower(n.Person.Name)]++
	}
	for d := 0; d < s.Generations; d++ {
		if perDepth[d] > s.Widest {
			s.Widest, s.WidestDepth = perDepth[d], d
		}
	}
	for name, count := range names {
		if count > 1 {
			s.Duplicates = append(s.Duplicates, name)
		}
	}
	slices.Sort(s.Duplicates)
	return s
}

// checkCommand creates the check command, which validates a family tree
// and reports its size and the extent of the fully expanded layout.
func (c *CLI) checkCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "check [source]",
		Short: "Validate a family tree and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := c.loadRecord(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			if err := c.Config.Layout.Validate(); err != nil {
				return err
			}

			sess, _, err := session.New(rec, session.Options{
				Layout:       c.Config.Layout,
				InitialDepth: -1,
			})
			if err != nil {
				return err
			}

			var (
				sum    treeSummary
				bounds string
			)
			sess.View(func(t *hierarchy.Tree, sc *scene.Scene) {
				sum = summarize(t)
				b := sc.Bounds()
				bounds = fmt.Sprintf("%s × %s", scene.Num(b.Width()), scene.Num(b.Height()))
			})

			printSuccess("Family tree is valid")
			fmt.Println()
			printKeyValue("Persons", strconv.Itoa(sum.Persons))
			printKeyValue("Generations", strconv.Itoa(sum.Generations))
			printKeyValue("Widest", fmt.Sprintf("%d (generation %d)", sum.Widest, sum.WidestDepth+1))
			printKeyValue("Spouses", strconv.Itoa(sum.Spouses))
			printKeyValue("Bios", strconv.Itoa(sum.Bios))
			printKeyValue("Expanded", bounds)

			for _, name := range sum.Duplicates {
				printWarning("%q appears more than once; --click picks the first in pre-order", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
