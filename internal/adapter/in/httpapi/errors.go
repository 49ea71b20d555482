package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"postsapi/internal/service"
	"postsapi/pkg/logger"
)

const (
	detailNotFound = "Item not found"
	detailInternal = "Internal Server Error"
)

// ErrorDetail is one entry of a 422 response.
type ErrorDetail struct {
	Type  string `json:"type"`
	Loc   []any  `json:"loc"`
	Msg   string `json:"msg"`
	Input any    `json:"input"`
}

type validationResponse struct {
	Detail []ErrorDetail `json:"detail"`
}

type messageResponse struct {
	Detail string `json:"detail"`
}

// requestError is a 422 raised before the service is reached: a bad path
// parameter or an undecodable body.
type requestError struct {
	details []ErrorDetail
}

func (e *requestError) Error() string {
	if len(e.details) == 0 {
		return "invalid request"
	}
	return "invalid request: " + e.details[0].Msg
}

func (e *requestError) Unwrap() error {
	return service.ErrInvalidRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its status and body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		verr *service.ValidationError
		rerr *requestError
	)
	switch {
	case errors.As(err, &rerr):
		log.Debug("rejected request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: rerr.details})

	case errors.As(err, &verr):
		log.Debug("rejected request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: bodyDetails(verr)})

	case errors.Is(err, service.ErrNotFound):
		log.Debug("not found", slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, messageResponse{Detail: detailNotFound})

	default:
		log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Detail: detailInternal})
	}
}

func bodyDetails(verr *service.ValidationError) []ErrorDetail {
	out := make([]ErrorDetail, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		out = append(out, ErrorDetail{
			Type:  v.Type,
			Loc:   []any{"body", v.Field},
			Msg:   v.Message,
			Input: v.Input,
		})
	}
	return out
}
