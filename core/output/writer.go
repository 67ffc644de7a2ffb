// Package output handles file naming and writing for converted tables.
// The output name is the input name with its extension replaced by the
// renderer's extension (e.g. jakarta.kmz → jakarta.csv).
// In --all mode, files mirror the directory structure below the batch root.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteOnly writes output for a single input, flat in the output directory.
func (w *Writer) WriteOnly(input string, data []byte, ext string) (string, error) {
	p := filepath.Join(w.OutputDir, Name(input, ext))

	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", p, err)
	}
	return p, nil
}

// WriteAll writes output for --all mode. rel is the input path relative to
// the batch root; its directories are recreated below the output directory.
// Example: maps/north/area1.kmz → <out>/maps/north/area1.csv
func (w *Writer) WriteAll(rel string, data []byte, ext string) (string, error) {
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid relative path %q", rel)
	}

	fullPath := filepath.Join(w.OutputDir, filepath.Dir(rel), Name(rel, ext))

	// Ensure parent directories exist.
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// Name returns the base name of input with its extension replaced by ext.
// URLs are reduced to the last segment of their path.
func Name(input, ext string) string {
	var base string
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		base = path.Base(u.Path)
	} else {
		base = filepath.Base(input)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "output"
	}
	return base + ext
}

// CSVName returns the CSV file name for an input file.
func CSVName(input string) string {
	return Name(input, ".csv")
}
