package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fauzanfathoni/convertero2an/internal/config"
	"github.com/fauzanfathoni/convertero2an/internal/history"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion jobs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of jobs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("history is disabled (set history.enabled in %s or CONVERTERO_HISTORY=true)", flagConfigName())
	}
	defer store.Close()

	jobs, err := store.Recent(cmd.Context(), flagLimit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "No jobs recorded yet.")
		return nil
	}

	failed := color.New(color.FgRed).SprintFunc()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSOURCE\tKIND\tFORMAT\tROWS\tCOLUMNS\tSTATUS")
	for _, j := range jobs {
		status := j.Status
		if j.Status == history.StatusFailed {
			status = failed(j.Status) + " " + j.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			j.CreatedAt.Local().Format(time.DateTime), j.Source, j.Kind, j.Format, j.Rows, j.Columns, status)
	}
	return tw.Flush()
}

func flagConfigName() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultFile
}
