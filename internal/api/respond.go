package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	apperrors "github.com/datamaplabs/lineagraph/pkg/errors"
)

// errorResponse is the JSON shape of every error the API returns.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to an HTTP status via its error code and logs
// unexpected (5xx) failures.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	if status >= 500 && logger != nil {
		logger.Error("request failed", "code", code, "err", err)
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = apperrors.UserMessage(err)
	writeJSON(w, status, resp)
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidPayload,
		apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeInvalidNodeID,
		apperrors.ErrCodeInvalidDirection,
		apperrors.ErrCodeInvalidMode,
		apperrors.ErrCodeInvalidSpacing,
		apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeGraphNotFound,
		apperrors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeSessionExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
