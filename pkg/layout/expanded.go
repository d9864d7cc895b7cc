package layout

import (
	"slices"
	"strings"
)

// Expanded is the set of node IDs whose children are visible.
//
// Values are immutable: Toggle returns a new set and leaves the receiver
// untouched, so a set can be shared between the caller and a cached layout.
// The zero value is an empty set.
type Expanded struct {
	ids map[string]struct{}
}

// NewExpanded returns a set containing ids. Empty strings are ignored.
func NewExpanded(ids ...string) Expanded {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return Expanded{ids: m}
}

// ParseExpanded parses a comma-separated ID list such as "j1,j1.1".
func ParseExpanded(s string) Expanded {
	if strings.TrimSpace(s) == "" {
		return Expanded{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return NewExpanded(parts...)
}

// Has reports whether id is expanded.
func (e Expanded) Has(id string) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of expanded IDs.
func (e Expanded) Len() int { return len(e.ids) }

// Toggle flips the membership of id and returns the new set.
func (e Expanded) Toggle(id string) Expanded {
	m := make(map[string]struct{}, len(e.ids)+1)
	for k := range e.ids {
		m[k] = struct{}{}
	}
	if _, ok := m[id]; ok {
		delete(m, id)
	} else {
		m[id] = struct{}{}
	}
	return Expanded{ids: m}
}

// IDs returns the members in sorted order.
func (e Expanded) IDs() []string {
	ids := make([]string, 0, len(e.ids))
	for id := range e.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// String returns the sorted, comma-separated form accepted by ParseExpanded.
func (e Expanded) String() string {
	return strings.Join(e.IDs(), ",")
}
