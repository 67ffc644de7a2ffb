// Package kml parses KML documents into an addressable tree and exposes
// placemark-level and field-level queries.
//
// Element names are matched by local name so documents that declare KML
// under an older schema URI, a prefix, or no namespace at all still work.
// When a query finds elements in a recognised KML namespace, only those are
// returned; otherwise every local-name match is.
package kml

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/fauzanfathoni/convertero2an/core"
)

// Namespaces treated as authoritative for KML element names.
var kmlNamespaces = map[string]bool{
	"http://www.opengis.net/kml/2.2":    true,
	"http://earth.google.com/kml/2.0":   true,
	"http://earth.google.com/kml/2.1":   true,
	"http://earth.google.com/kml/2.2":   true,
	"http://www.google.com/kml/ext/2.2": true,
}

// Element queries match by local name and are compiled once.
var (
	descendantExprs = compileAll(".//*[local-name()='%s']", "Placemark", "coordinates", "coord", "SimpleData", "Data")
	childExprs      = compileAll("./*[local-name()='%s']", "name", "description", "value")
)

// Document is a parsed KML document.
type Document struct {
	placemarks []*Placemark
}

// Parse parses KML text. It returns core.ErrNoPlacemarks when the document
// is well formed but holds no placemark.
func Parse(text string) (*Document, error) {
	root, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing KML: %v", core.ErrMalformedDocument, err)
	}

	nodes := descendants(root, "Placemark")
	if len(nodes) == 0 {
		return nil, core.ErrNoPlacemarks
	}

	doc := &Document{placemarks: make([]*Placemark, 0, len(nodes))}
	for i, n := range nodes {
		doc.placemarks = append(doc.placemarks, &Placemark{node: n, index: i})
	}
	return doc, nil
}

// Placemarks returns the placemarks in document order.
func (d *Document) Placemarks() []*Placemark {
	return d.placemarks
}

// Len returns the number of placemarks.
func (d *Document) Len() int {
	return len(d.placemarks)
}

// Placemark is a handle onto one placemark element.
type Placemark struct {
	node  *xmlquery.Node
	index int
}

// Index is the zero-based position of the placemark in its document.
func (p *Placemark) Index() int {
	return p.index
}

// Name returns the trimmed text of the placemark's own <name> element.
func (p *Placemark) Name() string {
	return p.childText("name")
}

// Description returns the trimmed description text, with CDATA unwrapped.
func (p *Placemark) Description() string {
	return p.childText("description")
}

// Coordinates returns the raw coordinate text: the first <coordinates>
// element, else the first gx:Track <coord>, else "".
func (p *Placemark) Coordinates() string {
	for _, local := range []string{"coordinates", "coord"} {
		nodes := descendants(p.node, local)
		if len(nodes) == 0 {
			continue
		}
		return strings.TrimSpace(nodes[0].InnerText())
	}
	return ""
}

// SimpleData returns the placemark's structured attribute fields in
// document order: <SimpleData name="..."> elements first, then the
// <Data name="..."><value> pairs of untyped ExtendedData.
func (p *Placemark) SimpleData() []core.Field {
	var fields []core.Field

	for _, n := range descendants(p.node, "SimpleData") {
		name := strings.TrimSpace(n.SelectAttr("name"))
		if name == "" {
			continue
		}
		fields = append(fields, core.Field{Key: name, Value: strings.TrimSpace(n.InnerText())})
	}

	for _, n := range descendants(p.node, "Data") {
		name := strings.TrimSpace(n.SelectAttr("name"))
		if name == "" {
			continue
		}
		var value string
		if vals := children(n, "value"); len(vals) > 0 {
			value = strings.TrimSpace(vals[0].InnerText())
		}
		fields = append(fields, core.Field{Key: name, Value: value})
	}

	return fields
}

// Lookup returns the value of the named structured field.
func (p *Placemark) Lookup(name string) (string, bool) {
	for _, f := range p.SimpleData() {
		if f.Key == name {
			return f.Value, true
		}
	}
	return "", false
}

func (p *Placemark) childText(local string) string {
	nodes := children(p.node, local)
	if len(nodes) == 0 {
		return ""
	}
	return strings.TrimSpace(nodes[0].InnerText())
}

// descendants finds elements below top by local name.
func descendants(top *xmlquery.Node, local string) []*xmlquery.Node {
	return preferKML(xmlquery.QuerySelectorAll(top, descendantExprs[local]))
}

// children finds direct child elements of top by local name.
func children(top *xmlquery.Node, local string) []*xmlquery.Node {
	return preferKML(xmlquery.QuerySelectorAll(top, childExprs[local]))
}

// compileAll compiles pattern once per local name.
func compileAll(pattern string, locals ...string) map[string]*xpath.Expr {
	exprs := make(map[string]*xpath.Expr, len(locals))
	for _, local := range locals {
		exprs[local] = xpath.MustCompile(fmt.Sprintf(pattern, local))
	}
	return exprs
}

// preferKML keeps the exact-namespace matches when there are any.
func preferKML(nodes []*xmlquery.Node) []*xmlquery.Node {
	var exact []*xmlquery.Node
	for _, n := range nodes {
		if kmlNamespaces[n.NamespaceURI] {
			exact = append(exact, n)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return nodes
}
