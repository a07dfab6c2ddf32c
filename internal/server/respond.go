package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

type errorBody struct {
	Detail any       `json:"detail"`
	Code   errs.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail answers with the status and detail carried by err. Unclassified
// errors hide their message behind a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	code := errs.GetCode(err)

	body := errorBody{Detail: errs.GetDetail(err), Code: code}
	if code == "" {
		body = errorBody{Detail: "Internal Server Error", Code: errs.ErrCodeInternal}
	}

	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()), "status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		logger.Warn("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}
