package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fauzanfathoni/convertero2an/internal/config"
)

const cliKML = `<kml xmlns="http://www.opengis.net/kml/2.2"><Document><Placemark>
<ExtendedData><SchemaData><SimpleData name="RT">01</SimpleData></SchemaData></ExtendedData>
<Point><coordinates>106.827,-6.175,0</coordinates></Point>
</Placemark></Document></kml>`

func resetFlags() {
	flagKind, flagAll, flagOutputDir, flagDescription = "auto", false, "", false
	flagCSV, flagJSON, flagMarkdown, flagPDF = false, false, false, false
	flagConfig = ""
}

func TestValidateFlags(t *testing.T) {
	t.Cleanup(resetFlags)

	resetFlags()
	if err := validateFlags(); err != nil {
		t.Errorf("no format: %v", err)
	}
	flagJSON = true
	if err := validateFlags(); err != nil {
		t.Errorf("one format: %v", err)
	}
	flagPDF = true
	if err := validateFlags(); err == nil {
		t.Error("two formats accepted")
	}
}

func TestSelectRenderer_ConfigDefault(t *testing.T) {
	t.Cleanup(resetFlags)
	resetFlags()

	cfg = config.Default()
	cfg.Output.Format = "markdown"
	r, err := selectRenderer()
	if err != nil {
		t.Fatalf("selectRenderer: %v", err)
	}
	if r.Extension() != ".md" {
		t.Errorf("Extension() = %q, want .md", r.Extension())
	}

	flagCSV = true
	r, err = selectRenderer()
	if err != nil || r.Extension() != ".csv" {
		t.Errorf("selectRenderer() = %v, %v; want csv", r, err)
	}
}

func TestConvertCommand(t *testing.T) {
	t.Cleanup(resetFlags)
	resetFlags()

	dir := t.TempDir()
	in := filepath.Join(dir, "area.kml")
	if err := os.WriteFile(in, []byte(cliKML), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"convert", in, "--kind", "kml", "--output_dir", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "area.csv"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), data)
	}
	if lines[0] != "POLE_FAT,RT,HOME/BIZ,Latitude,Longitude" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"","01","","-6.175000","106.827000"` {
		t.Errorf("row = %q", lines[1])
	}
}

func TestConvertCommand_BadKind(t *testing.T) {
	t.Cleanup(resetFlags)
	resetFlags()

	rootCmd.SetArgs([]string{"convert", "area.kml", "--kind", "shp"})
	if err := rootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "invalid --kind") {
		t.Errorf("Execute() error = %v, want invalid --kind", err)
	}
}
