package server

import (
	"encoding/json"
	"net/http"

	"github.com/qdm12/ipappend/internal/gateway"
)

func (h *handlers) httpError(w http.ResponseWriter, r *http.Request, err error) {
	status := gateway.HTTPStatus(err)
	message := r.Method + " " + r.URL.Path + ": " + err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error(message)
	} else {
		h.logger.Debug(message)
	}

	writeJSON(w, status, gateway.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
