package core

// Row is one placemark flattened into column/value pairs.
// Keys are unique and remember the order they were first set in,
// which keeps header discovery reproducible.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow creates an empty Row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set assigns a value. Setting an existing key keeps its position.
func (r *Row) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present.
func (r *Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (r *Row) Value(key string) string {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the keys in first-set order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	return len(r.keys)
}

// Merge overlays fields onto the row key by key, in the order given.
// Later sources win over earlier ones.
func (r *Row) Merge(fields []Field) {
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
}

// Field is a single key/value attribute read from a placemark.
type Field struct {
	Key   string
	Value string
}
