// Package cmd: convert command.
// This is the main command that orchestrates the pipeline:
// fetch → convert → render → write.
//
// It handles flag validation, renderer selection, and the single-file and
// --all modes.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/convert"
	"github.com/fauzanfathoni/convertero2an/core/fetch"
	"github.com/fauzanfathoni/convertero2an/core/output"
	"github.com/fauzanfathoni/convertero2an/core/render"
	"github.com/fauzanfathoni/convertero2an/crawl"
	"github.com/fauzanfathoni/convertero2an/internal/service"
)

// Flag variables.
var (
	flagKind        string
	flagAll         bool
	flagCSV         bool
	flagJSON        bool
	flagMarkdown    bool
	flagPDF         bool
	flagOutputDir   string
	flagDescription bool
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|url>",
	Short: "Convert a KML/KMZ file to the specified output format",
	Long: `Convert reads a KML or KMZ file (local path or http(s) URL), extracts one row
per placemark and writes the table in the selected format (CSV by default).

With --all the argument is a directory or an index URL; every .kml/.kmz file
below it is converted and the directory structure is mirrored in the output.

Examples:
  convertero convert area.kmz
  convertero convert area.kml --kind kml --json --output_dir ./out
  convertero convert ./surveys --all --csv
  convertero convert https://files.example.com/surveys/ --all --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagKind, "kind", "auto", "Input kind: kml, kmz or auto")
	convertCmd.Flags().BoolVar(&flagAll, "all", false, "Convert every file below a directory or index URL")

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagCSV, "csv", false, "Output CSV (default)")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output JSON")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output a Markdown table")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a PDF table")

	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().BoolVar(&flagDescription, "description", false, "Keep plain descriptions as a Description column")
}

func runConvert(cmd *cobra.Command, args []string) error {
	location := args[0]

	kind, ok := core.ParseKind(flagKind)
	if !ok {
		return fmt.Errorf("invalid --kind %q (use kml, kmz or auto)", flagKind)
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	dir := flagOutputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	var recorder service.Recorder
	if store != nil {
		defer store.Close()
		recorder = store
	}

	conv := convert.New(convert.Config{
		IncludeDescription: flagDescription || cfg.Convert.IncludeDescription,
		Logger:             logger,
	})
	svc := service.New(conv, recorder, logger)
	fetcher := fetch.New()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		return runAll(ctx, location, kind, fetcher, svc, renderer, writer)
	}
	return runOnly(ctx, location, kind, fetcher, svc, renderer, writer)
}

// runOnly converts a single file.
func runOnly(
	ctx context.Context,
	location string,
	kind core.Kind,
	fetcher *fetch.Fetcher,
	svc *service.Service,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	res, err := process(ctx, location, kind, fetcher, svc, renderer)
	if err != nil {
		return err
	}

	path, err := writer.WriteOnly(location, res.Output, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s Written: %s (%d rows, %d columns)\n", okMark, path, res.Stats.Rows, res.Stats.Columns)
	return nil
}

// runAll discovers every source below location and converts each one.
// A failing file is reported and skipped.
func runAll(
	ctx context.Context,
	location string,
	kind core.Kind,
	fetcher *fetch.Fetcher,
	svc *service.Service,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	fmt.Fprintf(os.Stdout, "Discovering files in %s...\n", location)

	targets, err := crawl.DiscoverAll(ctx, location, fetcher)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Found %d files to convert\n", len(targets))

	var errCount int
	for i, t := range targets {
		fmt.Fprintf(os.Stdout, "[%d/%d] Converting %s\n", i+1, len(targets), t.Rel)

		res, err := process(ctx, t.Location, kind, fetcher, svc, renderer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s Error: %v\n", failMark, err)
			errCount++
			continue
		}

		path, err := writer.WriteAll(t.Rel, res.Output, renderer.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s Write error: %v\n", failMark, err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  %s Written: %s (%d rows)\n", okMark, path, res.Stats.Rows)
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d files failed\n", errCount, len(targets))
	}
	return nil
}

// process fetches one source and runs it through the service.
func process(
	ctx context.Context,
	location string,
	kind core.Kind,
	fetcher *fetch.Fetcher,
	svc *service.Service,
	renderer core.Renderer,
) (*service.Result, error) {
	src, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return svc.Run(ctx, src, kind, renderer)
}

// validateFlags checks that at most one output format is chosen.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagCSV, flagJSON, flagMarkdown, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the Renderer chosen by flags, falling back to the
// configured default format.
func selectRenderer() (core.Renderer, error) {
	if err := validateFlags(); err != nil {
		return nil, err
	}
	switch {
	case flagCSV:
		return render.NewCSVRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return render.ForFormat(cfg.Output.Format)
	}
}
