package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

// errorResponse is the JSON error body shared by all endpoints
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handleError maps domain errors to HTTP status codes and coded JSON
// bodies: validation to 400, analyzer failures to 502 with a code that
// distinguishes unreachable, malformed and low-confidence, everything
// else to 500.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		status = http.StatusBadRequest
		code = "invalid_request"
	case errors.Is(err, analyzer.ErrUnreachable):
		status = http.StatusBadGateway
		code = "analyzer_unreachable"
	case errors.Is(err, analyzer.ErrMalformed):
		status = http.StatusBadGateway
		code = "analyzer_malformed"
	case errors.Is(err, analyzer.ErrLowConfidence):
		status = http.StatusBadGateway
		code = "analyzer_low_confidence"
	case errors.Is(err, usecase.ErrMailerNotConfigured):
		status = http.StatusNotFound
		code = "mailer_not_configured"
	}

	_ = errutil.Handle(ctx, err, "request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := errorResponse{Error: err.Error(), Code: code}
	json.NewEncoder(w).Encode(body) //nolint:errcheck // header already committed
}

// respondJSON writes a JSON response body with the given status
func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
