// Package report provides read-only summaries of a loaded feature graph.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
)

// OrphanCategory stands in for the category of a parent that has no entry.
const OrphanCategory = "orphan"

// Reporter writes graph summaries.
type Reporter struct {
	graph  *graph.Graph
	logger *zap.Logger
}

// NewReporter creates a reporter over g.
func NewReporter(g *graph.Graph) *Reporter {
	return &Reporter{graph: g, logger: zap.NewNop()}
}

// SetLogger sets the logger for orphan diagnostics.
func (r *Reporter) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Names lists the available reports, in display order.
func Names() []string {
	return []string{"stats", "top-level", "parent-types", "has-name", "has-fullname", "consistency", "max-kids", "orphans"}
}

// Write runs the named report.
func (r *Reporter) Write(name string, w io.Writer) error {
	switch name {
	case "stats":
		return r.Stats(w)
	case "top-level":
		return r.TopLevelTypes(w)
	case "parent-types":
		return r.ParentTypes(w)
	case "has-name":
		return r.HasName(w)
	case "has-fullname":
		return r.HasFullName(w)
	case "consistency":
		return r.Consistency(w)
	case "max-kids":
		return r.MaxKids(w)
	case "orphans":
		return r.WriteOrphans(w)
	}
	return fmt.Errorf("unknown report %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Stats writes the number of features per category.
func (r *Reporter) Stats(w io.Writer) error {
	counts := make(map[string]int)
	r.graph.Features(func(f *gff.Feature) bool {
		counts[f.Category]++
		return true
	})
	for _, c := range sortedKeys(counts) {
		if _, err := fmt.Fprintf(w, "%09d\t%s\n", counts[c], c); err != nil {
			return err
		}
	}
	return nil
}

// TopLevelTypes writes the categories that occur without a parent.
func (r *Reporter) TopLevelTypes(w io.Writer) error {
	cats := r.categoriesWhere(func(f *gff.Feature) bool {
		ids, _ := f.Parents()
		return len(ids) == 0
	})
	return writeLines(w, cats)
}

// HasName writes the categories with at least one named feature.
func (r *Reporter) HasName(w io.Writer) error {
	return writeLines(w, r.categoriesWhere(func(f *gff.Feature) bool {
		_, ok := f.Name()
		return ok
	}))
}

// HasFullName writes the categories with at least one feature carrying a
// fullname attribute.
func (r *Reporter) HasFullName(w io.Writer) error {
	return writeLines(w, r.categoriesWhere(func(f *gff.Feature) bool {
		_, ok := f.FullName()
		return ok
	}))
}

// Orphan is a Parent reference with no corresponding feature.
type Orphan struct {
	Child    gff.Identity
	Category string
	Parent   string
}

// Orphans returns every dangling parent reference in graph order.
func (r *Reporter) Orphans() []Orphan {
	var out []Orphan
	r.graph.Features(func(f *gff.Feature) bool {
		ids, _ := f.Parents()
		for _, p := range ids {
			if _, ok := r.graph.Lookup(p); !ok {
				out = append(out, Orphan{Child: f.ID, Category: f.Category, Parent: p})
			}
		}
		return true
	})
	return out
}

// WriteOrphans writes one line per dangling parent reference.
func (r *Reporter) WriteOrphans(w io.Writer) error {
	for _, o := range r.Orphans() {
		child := "-"
		if id, ok := o.Child.Declared(); ok {
			child = id
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", o.Category, child, o.Parent); err != nil {
			return err
		}
	}
	return nil
}

// ParentTypes writes, for each child category, the categories of its
// parents. Dangling references count as "orphan" and are logged.
func (r *Reporter) ParentTypes(w io.Writer) error {
	pt := make(map[string]map[string]bool)
	r.graph.Features(func(f *gff.Feature) bool {
		ids, _ := f.Parents()
		for _, p := range ids {
			if pt[f.Category] == nil {
				pt[f.Category] = make(map[string]bool)
			}
			parent, ok := r.graph.Lookup(p)
			if !ok {
				pt[f.Category][OrphanCategory] = true
				r.logger.Warn("orphan parent",
					zap.String("category", f.Category),
					zap.Stringer("child", f.ID),
					zap.String("parent", p))
				continue
			}
			pt[f.Category][parent.Category] = true
		}
		return true
	})

	for _, c := range sortedKeys(pt) {
		if _, err := fmt.Fprintf(w, "%s : %s\n", c, strings.Join(sortedKeys(pt[c]), ",")); err != nil {
			return err
		}
	}
	return nil
}

// Consistency reports genes whose children are not all one category, and
// genes with no children at all.
func (r *Reporter) Consistency(w io.Writer) error {
	for _, gene := range r.graph.Category("gene") {
		kinds := make(map[string]bool)
		for _, kid := range r.graph.Offspring(gene.ID) {
			if f, ok := r.graph.Get(kid); ok {
				kinds[f.Category] = true
			}
		}

		var err error
		switch {
		case len(kinds) == 0:
			_, err = fmt.Fprintf(w, "%s: gene with no offspring\n", gene.ID)
		case len(kinds) > 1:
			_, err = fmt.Fprintf(w, "%s: kid types: %s\n", gene.ID, strings.Join(sortedKeys(kinds), ","))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxKids writes, per parent category, the largest number of children of
// each category seen under a single parent.
func (r *Reporter) MaxKids(w io.Writer) error {
	types := make(map[string]map[string]int)
	for _, pid := range r.graph.ParentIDs() {
		parent, ok := r.graph.Get(pid)
		if !ok {
			continue
		}
		kmap := make(map[string]int)
		for _, kid := range r.graph.Offspring(pid) {
			if f, ok := r.graph.Get(kid); ok {
				kmap[f.Category]++
			}
		}
		gset, ok := types[parent.Category]
		if !ok {
			gset = make(map[string]int)
			types[parent.Category] = gset
		}
		for k, v := range kmap {
			if v > gset[k] {
				gset[k] = v
			}
		}
	}

	for _, t := range sortedKeys(types) {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
		for _, k := range sortedKeys(types[t]) {
			if _, err := fmt.Fprintf(w, "    %s : %d\n", k, types[t][k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reporter) categoriesWhere(pred func(*gff.Feature) bool) []string {
	cats := make(map[string]bool)
	r.graph.Features(func(f *gff.Feature) bool {
		if pred(f) {
			cats[f.Category] = true
		}
		return true
	})
	return sortedKeys(cats)
}

func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
