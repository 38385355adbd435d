package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/softgatehq/softgate/internal/common"
)

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError emits the JSON error envelope. Every error response is JSON,
// never an HTML error page; clients sniff for HTML to detect captive portals
// and wrong endpoints.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	var body errorBody
	body.Error.Message = message
	writeJSON(w, statusCode, body)
}

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid or missing credential")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrTerminalState):
		writeError(w, http.StatusConflict, "request already decided")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
