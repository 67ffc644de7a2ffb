package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/output"
	"github.com/fauzanfathoni/convertero2an/core/render"
	"github.com/fauzanfathoni/convertero2an/internal/history"
	"github.com/fauzanfathoni/convertero2an/internal/logging"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert converts an uploaded KML or KMZ file and returns the
// rendered table as an attachment.
//
// Form fields: file (required), kind (kml, kmz or auto).
// Query: format (csv, json, markdown, pdf; default csv).
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	renderer, err := render.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, err)
			return
		}
		respondBadRequest(w, r, fmt.Errorf("invalid form: %w", err))
		return
	}

	kind, ok := core.ParseKind(r.FormValue("kind"))
	if !ok {
		respondBadRequest(w, r, fmt.Errorf("unknown kind %q", r.FormValue("kind")))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, r, fmt.Errorf("missing file: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}

	logger := logging.WithFields(r.Context(), "file", header.Filename, "kind", kind, "size", len(data))
	logger.Info("conversion started")

	res, err := s.service.Run(r.Context(), &core.Source{Name: header.Filename, Data: data}, kind, renderer)
	if err != nil {
		respondError(w, r, err)
		return
	}

	name := output.Name(header.Filename, renderer.Extension())
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", attachment(name))
	w.Header().Set("X-Row-Count", strconv.Itoa(res.Stats.Rows))
	if res.JobID != "" {
		w.Header().Set("X-Job-ID", res.JobID)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Output); err != nil {
		logger.Warn("writing response failed", "error", err)
		return
	}
	logger.Info("conversion finished", "rows", res.Stats.Rows, "columns", res.Stats.Columns)
}

// attachment builds a Content-Disposition header for name. Non-ASCII names
// are sent in the RFC 2231 filename* form.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

// handleHistory lists recent jobs, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		respondJSON(w, http.StatusOK, []history.Job{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondBadRequest(w, r, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = min(n, 500)
	}

	jobs, err := s.jobs.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []history.Job{}
	}
	respondJSON(w, http.StatusOK, jobs)
}
