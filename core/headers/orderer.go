// Package headers computes the column order of a converted table.
//
// Ordering is a two-stage pure pipeline: Observed collects the attribute
// columns in first-seen order, Arrange reorders them against a static
// preferred list. Nothing touches the result afterwards.
package headers

import (
	"github.com/fauzanfathoni/convertero2an/core"
)

// Preferred is the fixed column order applied before any other column.
var Preferred = []string{
	"POST_CODE",
	"SUB_DISTRICT",
	"DISTRICT",
	core.ColPoleFAT,
	core.ColFATCode,
	"FDT_CODE",
	"CLUSTER_NAME",
	"CLUSTER_CODE",
	"STREET_NAME",
	"HOUSE_NUMBER",
	"BLOCK",
	"RT",
	"RW",
	"BUILDING_NAME",
	core.ColCategory,
	core.ColHomeBiz,
	"REMARKS",
}

// anchors places a derived column directly after the column it is computed from.
var anchors = []struct {
	column string
	after  string
}{
	{core.ColPoleFAT, core.ColFATCode},
	{core.ColHomeBiz, core.ColCategory},
}

// Order returns the final header sequence for rows.
func Order(rows []*core.Row) []string {
	return Arrange(Observed(rows))
}

// Observed returns every attribute column seen across rows in first-seen
// order, without positional or blocked columns, plus the derived columns.
func Observed(rows []*core.Row) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(key string) {
		if seen[key] || core.IsPositional(key) || core.IsBlocked(key) {
			return
		}
		seen[key] = true
		out = append(out, key)
	}

	for _, row := range rows {
		for _, key := range row.Keys() {
			add(key)
		}
	}
	add(core.ColPoleFAT)
	add(core.ColHomeBiz)
	return out
}

// Arrange orders observed columns: preferred columns first in list order,
// then the rest in their given order. Derived columns are then moved next to
// their anchor when it is present, and Latitude, Longitude close the list.
func Arrange(observed []string) []string {
	present := make(map[string]bool, len(observed))
	for _, h := range observed {
		present[h] = true
	}

	out := make([]string, 0, len(observed)+2)
	listed := make(map[string]bool, len(Preferred))
	for _, h := range Preferred {
		listed[h] = true
		if present[h] {
			out = append(out, h)
		}
	}
	for _, h := range observed {
		if !listed[h] && !core.IsPositional(h) && !core.IsBlocked(h) {
			out = append(out, h)
		}
	}

	for _, a := range anchors {
		if present[a.column] && present[a.after] {
			out = placeAfter(out, a.column, a.after)
		}
	}

	return append(out, core.ColLatitude, core.ColLongitude)
}

// placeAfter moves column to the position directly after anchor.
func placeAfter(headers []string, column, anchor string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != column {
			out = append(out, h)
		}
	}
	for i, h := range out {
		if h == anchor {
			out = append(out[:i+1], append([]string{column}, out[i+1:]...)...)
			break
		}
	}
	return out
}
