package gff

import (
	"strconv"
	"sync/atomic"
)

// Identity identifies a feature within one in-memory graph.
//
// A declared identity comes from the ID attribute. A synthetic identity is
// minted for features without one; it is only meaningful inside the running
// process and must never be written out.
type Identity struct {
	declared  string
	synthetic uint64 // 0 for declared identities
}

var syntheticSeq atomic.Uint64

// Declared returns the identity for a declared ID.
func Declared(id string) Identity {
	return Identity{declared: id}
}

// NewSynthetic returns a fresh synthetic identity, distinct from every other
// identity in this process.
func NewSynthetic() Identity {
	return Identity{synthetic: syntheticSeq.Add(1)}
}

// IsSynthetic reports whether the identity was minted rather than declared.
func (id Identity) IsSynthetic() bool {
	return id.synthetic != 0
}

// Declared returns the declared ID and true, or "" and false for a synthetic
// identity.
func (id Identity) Declared() (string, bool) {
	if id.IsSynthetic() {
		return "", false
	}
	return id.declared, true
}

// String is for logging only. Synthetic identities render as "<anonymous#N>".
func (id Identity) String() string {
	if id.IsSynthetic() {
		return "<anonymous#" + strconv.FormatUint(id.synthetic, 10) + ">"
	}
	return id.declared
}

// Less orders declared identities lexicographically before synthetic ones,
// which are ordered by creation.
func (id Identity) Less(other Identity) bool {
	if id.IsSynthetic() != other.IsSynthetic() {
		return !id.IsSynthetic()
	}
	if id.IsSynthetic() {
		return id.synthetic < other.synthetic
	}
	return id.declared < other.declared
}

// Feature is one parsed annotation record.
type Feature struct {
	Chrom      string     // Display-normalized chromosome
	Source     string     // Annotation pipeline (column 2)
	Category   string     // Feature type
	Start      int64      // 1-based
	End        int64      // 1-based, inclusive
	Score      string     // Passed through
	Strand     string     // Passed through
	Frame      string     // Passed through
	Attributes Attributes // Column 9
	ID         Identity
}

// Parents returns the members of the Parent attribute. ok is false when the
// attribute is absent; a present but empty set returns an empty slice and true.
func (f *Feature) Parents() (ids []string, ok bool) {
	v, ok := f.Attributes["Parent"]
	if !ok {
		return nil, false
	}
	return v.Members(), true
}

// Name returns the Name attribute.
func (f *Feature) Name() (string, bool) {
	return f.Attributes.Get("Name")
}

// FullName returns the fullname attribute.
func (f *Feature) FullName() (string, bool) {
	return f.Attributes.Get("fullname")
}

// Attribute returns the named attribute, or "None" when it is absent.
func (f *Feature) Attribute(name string) string {
	return f.Attributes.GetOr(name, MissingValue)
}

// MissingValue is written wherever an attribute is absent.
const MissingValue = "None"
