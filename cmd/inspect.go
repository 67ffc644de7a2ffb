package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/archive"
	"github.com/fauzanfathoni/convertero2an/core/convert"
	"github.com/fauzanfathoni/convertero2an/core/fetch"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|url>",
	Short: "Show what a KML/KMZ file contains without writing output",
	Long: `Inspect converts a file in memory and prints a summary: archive members,
placemark count, FAT-to-pole references and the resulting column order.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := fetch.New().Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(os.Stdout, "%s %s (%d bytes)\n", bold("File:"), src.Name, len(src.Data))

	if archive.IsArchive(src.Data) {
		members, err := archive.Members(src.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s %d\n", bold("Archive members:"), len(members))
		for _, m := range members {
			fmt.Fprintf(os.Stdout, "  %s\n", m)
		}
	}

	conv := convert.New(convert.Config{
		IncludeDescription: cfg.Convert.IncludeDescription,
		Logger:             logger,
	})
	table, stats, err := conv.ConvertWithStats(ctx, src.Data, src.Name, core.KindAuto)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s %d\n", bold("Placemarks:"), stats.Placemarks)
	fmt.Fprintf(os.Stdout, "%s %d\n", bold("FAT references:"), stats.References)
	fmt.Fprintf(os.Stdout, "%s %d\n", bold("Columns:"), stats.Columns)
	fmt.Fprintf(os.Stdout, "  %s\n", strings.Join(table.Headers, ", "))
	return nil
}
