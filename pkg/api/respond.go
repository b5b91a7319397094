package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/molcanon/pkg/errors"
)

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func toAPIError(err error, reqID string) apiError {
	code := string(errors.GetCode(err))
	switch {
	case code != "":
	case stderrors.Is(err, context.DeadlineExceeded):
		code = string(errors.ErrCodeTimeout)
	default:
		code = string(errors.ErrCodeInternal)
	}
	return apiError{Code: code, Message: errors.UserMessage(err), RequestID: reqID}
}

func statusFor(err error) int {
	if errors.GetCode(err) == "" && stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return errors.HTTPStatus(err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := middleware.GetReqID(r.Context())
	if status >= 500 {
		s.logger.Error("request failed", "err", err, "request_id", reqID)
	} else {
		s.logger.Debug("request rejected", "err", err, "request_id", reqID)
	}
	writeJSON(w, status, errorBody{Error: toAPIError(err, reqID)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
