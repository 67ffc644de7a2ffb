// Package xref builds the FAT-to-pole cross-reference table.
//
// Row extraction looks up into this table, so it must be fully built from
// every placemark before the first row is produced.
package xref

import (
	"github.com/fauzanfathoni/convertero2an/core"
)

// FieldSource is anything that exposes structured placemark fields.
type FieldSource interface {
	SimpleData() []core.Field
}

// Table maps a FAT/network identifier to a pole identifier.
// It is read-only once Build returns.
type Table struct {
	poles map[string]string
}

// Build scans all placemarks once. A placemark contributes a mapping only
// when both identifiers are present and non-empty; later placemarks
// overwrite earlier ones for the same identifier.
func Build[P FieldSource](placemarks []P) *Table {
	t := &Table{poles: make(map[string]string)}
	for _, p := range placemarks {
		var fat, pole string
		for _, f := range p.SimpleData() {
			switch f.Key {
			case core.ColFATNetwork:
				fat = f.Value
			case core.ColPoleID:
				pole = f.Value
			}
		}
		if fat != "" && pole != "" {
			t.poles[fat] = pole
		}
	}
	return t
}

// Lookup returns the pole identifier for a FAT identifier.
func (t *Table) Lookup(fat string) (string, bool) {
	if t == nil || fat == "" {
		return "", false
	}
	pole, ok := t.poles[fat]
	return pole, ok
}

// Len returns the number of mappings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.poles)
}
