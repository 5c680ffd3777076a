package handler

import (
	"net/http"

	"github.com/casetrack/casetrack/internal/service"
)

type reportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *reportHandler {
	return &reportHandler{reportService: reportService}
}

func (h *reportHandler) UsersByRole(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reportService.UsersByRole(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"usersByRole": counts})
}

func (h *reportHandler) TodayCasesByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reportService.TodayCasesByStatus(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todayCasesByStatus": counts})
}

func (h *reportHandler) TodayCasesByType(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reportService.TodayCasesByType(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todayCasesByType": counts})
}
