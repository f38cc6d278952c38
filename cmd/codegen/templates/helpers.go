package templates

import (
	"cmp"
	"slices"
)

// Prop is one enumerated property: the Go identifier after the Prop prefix
// and its wire name.
type Prop struct {
	Ident string
	Name  string
}

// byName returns the named properties sorted by wire name. The first entry
// of the enumeration is the unknown placeholder and has no lookup entry.
func byName(props []Prop) []Prop {
	if len(props) == 0 {
		return nil
	}
	out := slices.Clone(props[1:])
	slices.SortFunc(out, func(a, b Prop) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
