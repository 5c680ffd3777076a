package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/service"
)

const (
	msgCaseCreated     = "Case created successfully"
	msgCaseInvalid     = "Failed to create case"
	msgCaseCreateError = "An error occurred while creating the case"
)

type caseHandler struct {
	caseService   *service.CaseService
	maxUploadSize int64
}

func NewCaseHandler(caseService *service.CaseService, maxUploadSize int64) *caseHandler {
	return &caseHandler{
		caseService:   caseService,
		maxUploadSize: maxUploadSize,
	}
}

type caseData struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reporter    int64   `json:"reporter"`
	CreatedBy   *int64  `json:"created_by"`
	CaseType    *int64  `json:"case_type"`
	Status      *int64  `json:"status"`
	Location    *string `json:"location"`
}

// Create accepts a multipart case submission with zero or more images.
func (h *caseHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	err := r.ParseMultipartForm(h.maxUploadSize)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to parse case form", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": msgCaseInvalid,
			"errors":  model.FieldErrors{"non_field_errors": {"invalid multipart form or request too large."}},
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := service.CaseInput{
		Title:       r.FormValue("caseTitle"),
		Description: r.FormValue("description"),
		Reporter:    r.FormValue("userId"),
		CaseType:    r.FormValue("caseType"),
		Location:    r.FormValue("location"),
		Status:      r.FormValue("status"),
		Images:      append(r.MultipartForm.File["images"], r.MultipartForm.File["images[]"]...),
	}
	if user := ctxkeys.User(r.Context()); user != nil {
		in.CreatedBy = &user.ID
	}

	detail, err := h.caseService.Create(r.Context(), in)
	if err != nil {
		var fields model.FieldErrors
		if errors.As(err, &fields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message": msgCaseInvalid,
				"errors":  fields,
			})
			return
		}

		short := "unexpected error"
		var opErr *model.OperationError
		if errors.As(err, &opErr) {
			short = opErr.Detail
		}
		slog.ErrorContext(r.Context(), "case ingestion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": msgCaseCreateError,
			"error":   short,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": msgCaseCreated,
		"data": caseData{
			Title:       detail.Title,
			Description: detail.Description,
			Reporter:    detail.ReporterID,
			CreatedBy:   detail.CreatedByID,
			CaseType:    detail.CaseTypeID,
			Status:      detail.StatusID,
			Location:    detail.Location,
		},
		"case_id": detail.ID,
	})
}

func (h *caseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		presentError(w, r, model.ErrCaseNotFound)
		return
	}

	detail, err := h.caseService.Get(r.Context(), id)
	if err != nil {
		presentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
