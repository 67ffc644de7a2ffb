package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/fauzanfathoni/convertero2an/core"
)

func testTable() *core.ParsedTable {
	r1 := core.NewRow()
	r1.Set(core.ColName, "H1")
	r1.Set(core.ColLatitude, "-6.175000")
	r1.Set(core.ColLongitude, "106.827000")
	r1.Set("POST_CODE", "10110")
	r1.Set("REMARKS", `near "big" tree, north`)
	r1.Set("SCORE", "1.5")

	r2 := core.NewRow()
	r2.Set(core.ColLatitude, "")
	r2.Set(core.ColLongitude, "")
	r2.Set("POST_CODE", "10120")

	return &core.ParsedTable{
		Headers: []string{"POST_CODE", "REMARKS", "SCORE", core.ColLatitude, core.ColLongitude},
		Rows:    []*core.Row{r1, r2},
	}
}

func TestCSVRenderer(t *testing.T) {
	out, err := NewCSVRenderer().Render(testTable())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := strings.Join([]string{
		"POST_CODE,REMARKS,SCORE,Latitude,Longitude",
		`"10110","near ""big"" tree, north","1.500000","-6.175000","106.827000"`,
		`"10120","","","",""`,
	}, "\n")
	if string(out) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", out, want)
	}
}

func TestCSVRenderer_NoRows(t *testing.T) {
	out, err := NewCSVRenderer().Render(&core.ParsedTable{Headers: []string{"A", core.ColLatitude, core.ColLongitude}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "A,Latitude,Longitude" {
		t.Errorf("Render() = %q", out)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"106.827", "106.827000"},
		{"-6.1", "-6.100000"},
		{"1.1234567", "1.123457"},
		{"10110", "10110"},
		{"007", "007"},
		{"1.", "1."},
		{".5", ".5"},
		{"1e5", "1e5"},
		{"RT 01", "RT 01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(testTable())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !gjson.ValidBytes(out) {
		t.Fatalf("invalid JSON:\n%s", out)
	}

	doc := gjson.ParseBytes(out)
	if got := doc.Get("headers.#").Int(); got != 5 {
		t.Errorf("headers = %d, want 5", got)
	}
	if got := doc.Get("rows.#").Int(); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
	if got := doc.Get("rows.0.REMARKS").String(); got != `near "big" tree, north` {
		t.Errorf("rows.0.REMARKS = %q", got)
	}
	if got := doc.Get("rows.1.Latitude").String(); got != "" {
		t.Errorf("rows.1.Latitude = %q, want empty", got)
	}

	var keys []string
	doc.Get("rows.0").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	if strings.Join(keys, ",") != "POST_CODE,REMARKS,SCORE,Latitude,Longitude" {
		t.Errorf("row keys = %v, want header order", keys)
	}
}

func TestJSONRenderer_SpecialKeys(t *testing.T) {
	r := core.NewRow()
	r.Set("HOME/BIZ", "H")
	r.Set("A.B", "x")
	out, err := (&JSONRenderer{}).Render(&core.ParsedTable{Headers: []string{"HOME/BIZ", "A.B"}, Rows: []*core.Row{r}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := gjson.GetBytes(out, `rows.0.A\.B`).String(); got != "x" {
		t.Errorf("A.B = %q, want x (%s)", got, out)
	}
	if got := gjson.GetBytes(out, "rows.0.HOME/BIZ").String(); got != "H" {
		t.Errorf("HOME/BIZ = %q, want H (%s)", got, out)
	}
}

func TestMarkdownRenderer(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(testTable())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	md := string(out)
	for _, want := range []string{"Latitude", "Longitude", "10110", "106.827000", "1.500000"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "|") {
		t.Errorf("markdown is not a pipe table:\n%s", md)
	}
}

func TestHTMLTable_Escapes(t *testing.T) {
	r := core.NewRow()
	r.Set("A", "<b>&</b>")
	got := HTMLTable(&core.ParsedTable{Headers: []string{"A"}, Rows: []*core.Row{r}})
	if !strings.Contains(got, "<td>&lt;b&gt;&amp;&lt;/b&gt;</td>") {
		t.Errorf("HTMLTable() = %s", got)
	}
}

func TestPDFRenderer(t *testing.T) {
	out, err := (&PDFRenderer{Title: "area.kmz"}).Render(testTable())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", out[:min(len(out), 16)])
	}
}

func TestPDFRenderer_ManyRowsPaginate(t *testing.T) {
	table := testTable()
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, table.Rows[0])
	}
	out, err := NewPDFRenderer().Render(table)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bytes.Count(out, []byte("<</Type /Page\n")) < 2 {
		t.Error("expected more than one page")
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantErr bool
	}{
		{"", ".csv", false},
		{"csv", ".csv", false},
		{"JSON", ".json", false},
		{"markdown", ".md", false},
		{"md", ".md", false},
		{"pdf", ".pdf", false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		r, err := ForFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && r.Extension() != tt.wantExt {
			t.Errorf("ForFormat(%q).Extension() = %q, want %q", tt.name, r.Extension(), tt.wantExt)
		}
	}
}
