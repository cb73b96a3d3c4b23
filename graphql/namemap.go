package graphql

import "sort"

// NameMap maps the external names of one InputObject to internal names.
//
// The zero value is an empty map. A NameMap has no mutating methods, so once
// built it can be shared freely.
type NameMap struct {
	m map[string]string
}

// NewNameMap builds the map for fields. It covers exactly the given fields.
// When two fields share an external name the last one wins; the schema builder
// rejects such definitions before they get here.
func NewNameMap(fields []*InputField) NameMap {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Internal
	}
	return NameMap{m: m}
}

// Internal returns the internal name for external.
func (nm NameMap) Internal(external string) (string, bool) {
	internal, ok := nm.m[external]
	return internal, ok
}

// Len returns the number of entries.
func (nm NameMap) Len() int {
	return len(nm.m)
}

// Externals returns the external names in sorted order.
func (nm NameMap) Externals() []string {
	names := make([]string, 0, len(nm.m))
	for name := range nm.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the underlying mapping.
func (nm NameMap) Map() map[string]string {
	out := make(map[string]string, len(nm.m))
	for k, v := range nm.m {
		out[k] = v
	}
	return out
}
