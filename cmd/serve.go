package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fauzanfathoni/convertero2an/core/convert"
	"github.com/fauzanfathoni/convertero2an/internal/service"
	"github.com/fauzanfathoni/convertero2an/internal/web"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: `Serve starts an HTTP server that converts uploaded KML/KMZ files.

Endpoints:
  POST /api/convert?format=csv   multipart form: file, kind (kml|kmz|auto)
  GET  /api/history?limit=20     recent jobs (requires history.enabled)
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := flagAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := openHistory()
	if err != nil {
		return err
	}

	var (
		recorder service.Recorder
		jobs     web.JobLister
	)
	if store != nil {
		defer store.Close()
		recorder, jobs = store, store
	}

	conv := convert.New(convert.Config{
		IncludeDescription: cfg.Convert.IncludeDescription,
		Logger:             logger,
	})
	srv := web.NewServer(service.New(conv, recorder, logger), jobs, web.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
