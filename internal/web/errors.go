package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// apiError pairs a status with a stable machine-readable code.
type apiError struct {
	status  int
	code    string
	message string
}

// classify maps a job failure to its HTTP status and code.
func classify(err error) apiError {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apiError{http.StatusRequestEntityTooLarge, "too_large", "The upload exceeds the size limit."}
	case errors.Is(err, core.ErrUnsupportedFileType):
		return apiError{http.StatusUnsupportedMediaType, "unsupported_file_type", "The file type does not match the selected kind."}
	case errors.Is(err, core.ErrEmptyArchiveMember):
		return apiError{http.StatusUnprocessableEntity, "unreadable_archive_member", "The archive members could not be read."}
	case errors.Is(err, core.ErrNoContentFound):
		return apiError{http.StatusUnprocessableEntity, "no_content_found", "The archive holds no KML document with placemarks."}
	case errors.Is(err, core.ErrNoPlacemarks):
		return apiError{http.StatusUnprocessableEntity, "no_placemarks", "The document contains no placemarks."}
	case errors.Is(err, core.ErrMalformedDocument):
		return apiError{http.StatusUnprocessableEntity, "malformed_document", "The document could not be parsed."}
	default:
		return apiError{http.StatusInternalServerError, "internal", "The conversion failed."}
	}
}

// respondError logs err with the request ID and writes it as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondAPIError(w, r, err, classify(err))
}

// respondBadRequest reports a malformed request.
func respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	respondAPIError(w, r, err, apiError{http.StatusBadRequest, "bad_request", err.Error()})
}

func respondAPIError(w http.ResponseWriter, r *http.Request, err error, e apiError) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", e.status,
		"error", err.Error(),
		"code", e.code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   err.Error(),
		Message: e.message,
		Code:    e.code,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
