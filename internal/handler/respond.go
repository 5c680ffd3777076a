package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a JSON body into v. Malformed bodies are bad parameters.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return errors.Wrap(model.ErrBadParameter, "malformed JSON body")
	}
	return nil
}

var statusByBase = []struct {
	base   error
	status int
}{
	{model.ErrBadParameter, http.StatusBadRequest},
	{model.ErrUnauthorized, http.StatusUnauthorized},
	{model.ErrForbidden, http.StatusForbidden},
	{model.ErrNotFound, http.StatusNotFound},
	{model.ErrConflict, http.StatusConflict},
	{model.ErrRateLimited, http.StatusTooManyRequests},
}

// presentError renders err under {"error": ...}.
func presentError(w http.ResponseWriter, r *http.Request, err error) {
	presentErrorAs(w, r, "error", err)
}

// presentErrorAs maps err onto the status taxonomy of model/errors.go. Field
// errors are rendered as the bare field map and policy errors as the list of
// reasons; unexpected errors are logged and hidden behind a generic message.
func presentErrorAs(w http.ResponseWriter, r *http.Request, key string, err error) {
	var fields model.FieldErrors
	if errors.As(err, &fields) {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	var policy *model.PolicyError
	if errors.As(err, &policy) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{key: policy.Reasons})
		return
	}

	for _, s := range statusByBase {
		if errors.Is(err, s.base) {
			writeJSON(w, s.status, map[string]string{key: errorMessage(err, s.base)})
			return
		}
	}

	slog.ErrorContext(r.Context(), "unexpected error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{key: "internal server error"})
}

// errorMessage drops the base sentinel from the end of a wrapped message.
func errorMessage(err, base error) string {
	msg := err.Error()
	if msg == base.Error() {
		return msg
	}
	return strings.TrimSuffix(msg, ": "+base.Error())
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}
