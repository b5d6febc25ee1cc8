package gff

import (
	"fmt"
	"sort"
	"strings"
)

// Value is a single attribute value: either a scalar or a set of strings.
// Sets are deduplicated, sorted, and never contain the empty string.
type Value struct {
	scalar string
	set    []string
	isSet  bool
}

// Scalar returns a scalar value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Set returns a set value built from members.
func Set(members ...string) Value {
	seen := make(map[string]bool, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return Value{set: out, isSet: true}
}

// IsSet reports whether v holds a set.
func (v Value) IsSet() bool { return v.isSet }

// Members returns the set members in sorted order, or the scalar as a
// single-element slice.
func (v Value) Members() []string {
	if v.isSet {
		return v.set
	}
	return []string{v.scalar}
}

// String returns the scalar, or the members joined by commas.
func (v Value) String() string {
	if v.isSet {
		return strings.Join(v.set, ",")
	}
	return v.scalar
}

// Attributes maps attribute names to values.
type Attributes map[string]Value

// Get returns the string form of an attribute and whether it was present.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// GetOr returns the attribute or def when it is absent.
func (a Attributes) GetOr(key, def string) string {
	if s, ok := a.Get(key); ok {
		return s
	}
	return def
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AttributeError reports a malformed attribute segment.
type AttributeError struct {
	Segment string
	Reason  string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("malformed attribute %q: %s", e.Segment, e.Reason)
}

// ParseAttributes parses a GFF3 attribute column.
// Format: key=value;key=v1,v2;...
// Values containing a comma, and Parent always, are stored as sets.
func ParseAttributes(s string) (Attributes, error) {
	attrs := make(Attributes)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, &AttributeError{Segment: part, Reason: "missing '='"}
		}

		vals := strings.Split(val, ",")
		if len(vals) > 1 || key == "Parent" {
			attrs[key] = Set(vals...)
		} else {
			attrs[key] = Scalar(vals[0])
		}
	}
	return attrs, nil
}

// ParseRNAcentralAttributes parses the attribute column written by RNAcentral.
// Format: key "value";key "value";...
// Parent is always stored as a singleton set.
func ParseRNAcentralAttributes(s string) (Attributes, error) {
	attrs := make(Attributes)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, ok := strings.Cut(part, " ")
		if !ok {
			return nil, &AttributeError{Segment: part, Reason: "missing ' '"}
		}

		val = strings.ReplaceAll(val, "\"", "")
		if key == "Parent" {
			attrs[key] = Set(val)
		} else {
			attrs[key] = Scalar(val)
		}
	}
	return attrs, nil
}
