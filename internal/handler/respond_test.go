package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/casetrack/casetrack/internal/model"
)

func TestPresentError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"wrapped bad parameter", model.ErrRangeRequired, http.StatusBadRequest, `{"error":"start and end parameters are required"}`},
		{"not found", model.ErrCaseNotFound, http.StatusNotFound, `{"error":"case not found"}`},
		{"conflict", model.ErrDuplicateUsername, http.StatusConflict, `{"error":"username already exists"}`},
		{"invalid columns", &model.InvalidColumnsError{Columns: []string{"x"}}, http.StatusBadRequest, `{"error":"Invalid columns: ['x']"}`},
		{"field errors", model.FieldErrors{"title": {"this field is required."}}, http.StatusBadRequest, `{"title":["this field is required."]}`},
		{"policy", &model.PolicyError{Reasons: []string{"a", "b"}}, http.StatusBadRequest, `{"error":["a","b"]}`},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			presentError(rec, httptest.NewRequest("GET", "/", nil), tc.err)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestPresentErrorAsDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	presentErrorAs(rec, httptest.NewRequest("POST", "/", nil), "detail", model.ErrUserNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"user not found"}`, rec.Body.String())
}

func TestCSVValue(t *testing.T) {
	assert.Equal(t, "", csvValue(nil))
	assert.Equal(t, "42", csvValue(int64(42)))
	assert.Equal(t, "abc", csvValue([]byte("abc")))
	assert.Equal(t, "2025-01-02T03:04:05Z", csvValue(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}
