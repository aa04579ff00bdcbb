package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oxygenesis/signchain/internal/app/http/middleware"
	"github.com/oxygenesis/signchain/internal/domain"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

var statusByCode = map[string]int{
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeAlreadyExists:    http.StatusConflict,
	domain.CodeInvalidInput:     http.StatusBadRequest,
	domain.CodeInvalidAlgorithm: http.StatusBadRequest,
	domain.CodeSigningFailure:   http.StatusInternalServerError,
	domain.CodeKeyGeneration:    http.StatusInternalServerError,
	domain.CodeInternal:         http.StatusInternalServerError,
}

// fail writes the error body for err. Internal failures are logged; their
// message is replaced so storage details do not leak to clients.
func (h *Device) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	status := statusByCode[code]
	msg := err.Error()
	if code == domain.CodeInternal {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("request_id", middleware.RequestIDFrom(r.Context())).Error("request failed")
	}
	writeErr(w, status, code, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeBodyErr(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErr(w, http.StatusRequestEntityTooLarge, domain.CodeInvalidInput, "request body too large")
		return
	}
	writeErr(w, http.StatusBadRequest, domain.CodeInvalidInput, "invalid JSON")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
