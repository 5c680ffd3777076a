package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/casetrack/casetrack/internal/service"
	"github.com/casetrack/casetrack/internal/validation"
)

const (
	formatCSV           = "csv"
	fieldsVersionHeader = "X-Case-Fields-Version"
)

type exportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *exportHandler {
	return &exportHandler{exportService: exportService}
}

// ListTitles lists the titles of cases created within ?start= and ?end=.
func (h *exportHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	titles, err := h.exportService.ListCaseTitlesInRange(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		presentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, titles)
}

func (h *exportHandler) Columns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(fieldsVersionHeader, strconv.Itoa(h.exportService.FieldsVersion()))
	writeJSON(w, http.StatusOK, h.exportService.ListReportableFields())
}

func (h *exportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req service.ExportRequest
	err := decodeJSON(r, &req)
	if err != nil {
		presentError(w, r, err)
		return
	}
	err = validation.Struct(req)
	if err != nil {
		presentError(w, r, err)
		return
	}

	export, err := h.exportService.ExportColumns(r.Context(), req)
	if err != nil {
		presentError(w, r, err)
		return
	}

	if req.Format == formatCSV {
		h.writeCSV(w, r, export)
		return
	}

	writeJSON(w, http.StatusOK, export.Rows)
}

// writeCSV streams the export with a header row in requested column order.
func (h *exportHandler) writeCSV(w http.ResponseWriter, r *http.Request, export *service.Export) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cases.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	header := make([]string, len(export.Fields))
	for i, f := range export.Fields {
		header[i] = f.Key
	}
	_ = cw.Write(header)

	record := make([]string, len(export.Fields))
	for _, row := range export.Rows {
		for i, f := range export.Fields {
			record[i] = csvValue(row[f.Key])
		}
		_ = cw.Write(record)
	}

	cw.Flush()
	err := cw.Error()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv export", "error", err)
	}
}

func csvValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
