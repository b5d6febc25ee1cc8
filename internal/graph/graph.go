// Package graph holds the gene→transcript→part hierarchy reconstructed from
// Parent attribute cross-references.
package graph

import (
	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/gff"
)

// toleratedDuplicate is the one category whose duplicate IDs are expected in
// real annotation releases; later records replace earlier ones.
const toleratedDuplicate = "transposable_element"

// ParentView is a feature's recorded parent set.
type ParentView struct {
	Present bool     // false when the feature had no Parent attribute
	IDs     []string // sorted; empty when present but empty
}

// Equal reports whether two views hold the same state and members.
func (v ParentView) Equal(o ParentView) bool {
	if v.Present != o.Present || len(v.IDs) != len(o.IDs) {
		return false
	}
	for i := range v.IDs {
		if v.IDs[i] != o.IDs[i] {
			return false
		}
	}
	return true
}

// Graph is the loaded feature set plus its parent and child indexes.
// It is built once by Load or successive Add calls and is read-only afterwards.
type Graph struct {
	entries   map[gff.Identity]*gff.Feature
	parents   map[gff.Identity]ParentView
	offspring map[gff.Identity]*idSet
	order     []gff.Identity
	dropped   int
	logger    *zap.Logger
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		entries:   make(map[gff.Identity]*gff.Feature),
		parents:   make(map[gff.Identity]ParentView),
		offspring: make(map[gff.Identity]*idSet),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger that receives graph diagnostics.
func (g *Graph) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Add stores f. A feature whose identity is already present is dropped with
// a warning, except for transposable elements, which replace the entry.
// It reports whether f was stored.
func (g *Graph) Add(f *gff.Feature) bool {
	if _, dup := g.entries[f.ID]; dup {
		if f.Category != toleratedDuplicate {
			g.logger.Warn("skipping duplicate id",
				zap.Stringer("id", f.ID),
				zap.String("category", f.Category))
			g.dropped++
			return false
		}
	} else {
		g.order = append(g.order, f.ID)
	}

	g.entries[f.ID] = f
	ids, ok := f.Parents()
	g.parents[f.ID] = ParentView{Present: ok, IDs: ids}

	for _, par := range ids {
		pid := gff.Declared(par)
		kids, ok := g.offspring[pid]
		if !ok {
			kids = newIDSet()
			g.offspring[pid] = kids
		}
		kids.add(f.ID)
	}
	return true
}

// Len returns the number of stored features.
func (g *Graph) Len() int {
	return len(g.entries)
}

// Dropped returns the number of duplicate records that were skipped.
func (g *Graph) Dropped() int {
	return g.dropped
}

// Get returns the feature with the given identity.
func (g *Graph) Get(id gff.Identity) (*gff.Feature, bool) {
	f, ok := g.entries[id]
	return f, ok
}

// Lookup returns the feature with the given declared ID.
func (g *Graph) Lookup(id string) (*gff.Feature, bool) {
	return g.Get(gff.Declared(id))
}

// Parents returns the parent index entry for id.
// ok is false when id has no entry in the graph.
func (g *Graph) Parents(id gff.Identity) (ParentView, bool) {
	v, ok := g.parents[id]
	return v, ok
}

// Offspring returns the children recorded for id in insertion order.
// id need not be present in the graph.
func (g *Graph) Offspring(id gff.Identity) []gff.Identity {
	kids, ok := g.offspring[id]
	if !ok {
		return nil
	}
	return kids.items
}

// HasOffspring reports whether any feature names id as a parent.
func (g *Graph) HasOffspring(id gff.Identity) bool {
	_, ok := g.offspring[id]
	return ok
}

// ParentIDs returns every identity that appears in some Parent attribute,
// in the order first referenced.
func (g *Graph) ParentIDs() []gff.Identity {
	out := make([]gff.Identity, 0, len(g.offspring))
	seen := make(map[gff.Identity]bool, len(g.offspring))
	for _, id := range g.order {
		for _, par := range g.parents[id].IDs {
			pid := gff.Declared(par)
			if !seen[pid] {
				seen[pid] = true
				out = append(out, pid)
			}
		}
	}
	return out
}

// Features calls fn for each stored feature in first-insertion order.
// Iteration stops when fn returns false.
func (g *Graph) Features(fn func(*gff.Feature) bool) {
	for _, id := range g.order {
		if !fn(g.entries[id]) {
			return
		}
	}
}

// Category returns the stored features of one category in insertion order.
func (g *Graph) Category(category string) []*gff.Feature {
	var out []*gff.Feature
	for _, id := range g.order {
		if f := g.entries[id]; f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// idSet is an insertion-ordered set of identities.
type idSet struct {
	items []gff.Identity
	index map[gff.Identity]struct{}
}

func newIDSet() *idSet {
	return &idSet{index: make(map[gff.Identity]struct{})}
}

func (s *idSet) add(id gff.Identity) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, id)
}
