package api

import (
	"encoding/json"
	"net/http"

	"github.com/drasi-project/drasi-server/internal/component"
)

// response is the uniform envelope every handler writes, mirroring
// original_source's ApiResponse<T>: exactly one of Data/Error is populated.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// errorStatus maps a component.ErrorKind to its HTTP status category per
// spec §4.9: not-found -> 404, duplicate/conflict -> 409, malformed -> 400,
// everything else -> 500. ReadOnly is handled separately by writeError: it
// is a "soft" failure surfaced with 200 and success:false, not a status
// code, per spec §6's envelope table.
func errorStatus(kind component.ErrorKind) int {
	switch kind {
	case component.NotFound:
		return http.StatusNotFound
	case component.AlreadyExists:
		return http.StatusConflict
	case component.InvalidConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	if component.IsKind(err, component.ReadOnly) {
		writeJSON(w, http.StatusOK, response{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, errorStatus(component.KindOf(err)), response{Success: false, Error: err.Error()})
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
