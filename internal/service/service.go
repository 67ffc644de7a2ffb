// Package service runs conversion jobs for the CLI and the HTTP service:
// convert → render → record in the job history.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/convert"
	"github.com/fauzanfathoni/convertero2an/internal/history"
)

// Recorder stores finished jobs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, job history.Job) (history.Job, error)
}

// Result is the outcome of a successful job.
type Result struct {
	JobID  string
	Table  *core.ParsedTable
	Output []byte
	Stats  convert.Stats
}

// Service converts sources and renders the resulting table.
type Service struct {
	conv     *convert.Converter
	recorder Recorder
	logger   *slog.Logger
}

// New creates a Service. recorder may be nil to disable the job history.
func New(conv *convert.Converter, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{conv: conv, recorder: recorder, logger: logger}
}

// Run converts src and renders it with renderer. The job is recorded
// whether it succeeds or not.
func (s *Service) Run(ctx context.Context, src *core.Source, kind core.Kind, renderer core.Renderer) (*Result, error) {
	job := history.Job{
		Source: src.Name,
		Kind:   string(kind),
		Format: renderer.Extension(),
		Status: history.StatusOK,
	}

	table, stats, err := s.conv.ConvertWithStats(ctx, src.Data, src.Name, kind)
	if err != nil {
		s.record(ctx, job, err)
		return nil, err
	}
	job.Placemarks = stats.Placemarks
	job.Rows = stats.Rows
	job.Columns = stats.Columns

	out, err := renderer.Render(table)
	if err != nil {
		err = fmt.Errorf("render: %w", err)
		s.record(ctx, job, err)
		return nil, err
	}

	id := s.record(ctx, job, nil)
	return &Result{JobID: id, Table: table, Output: out, Stats: stats}, nil
}

// record stores the job and returns its ID. History failures are logged,
// not returned.
func (s *Service) record(ctx context.Context, job history.Job, jobErr error) string {
	if s.recorder == nil {
		return ""
	}
	if jobErr != nil {
		job.Status = history.StatusFailed
		job.Error = jobErr.Error()
	}
	stored, err := s.recorder.Record(ctx, job)
	if err != nil {
		s.logger.Warn("recording job failed", "source", job.Source, "error", err)
		return ""
	}
	return stored.ID
}
