package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/validation"
)

// Column is a reportable case field as offered to clients.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FieldRegistry is the set of reportable case fields, built once at startup.
type FieldRegistry struct {
	Version int
	fields  []model.CaseField
	byKey   map[string]model.CaseField
	columns []Column
}

func NewFieldRegistry(fields []model.CaseField, version int) *FieldRegistry {
	caser := cases.Title(language.Und)
	r := &FieldRegistry{
		Version: version,
		fields:  fields,
		byKey:   make(map[string]model.CaseField, len(fields)),
		columns: make([]Column, 0, len(fields)),
	}
	for _, f := range fields {
		r.byKey[f.Key] = f
		r.columns = append(r.columns, Column{
			Key:   f.Key,
			Label: caser.String(strings.ReplaceAll(f.Key, "_", " ")),
		})
	}
	return r
}

// Columns lists every field in declaration order with its display label.
func (r *FieldRegistry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Resolve maps keys to fields in the order given, dropping repeats. Every
// unknown key is reported in one *model.InvalidColumnsError.
func (r *FieldRegistry) Resolve(keys []string) ([]model.CaseField, error) {
	if len(keys) == 0 {
		return nil, model.ErrColumnsRequired
	}

	var (
		fields  []model.CaseField
		invalid []string
		seen    = map[string]bool{}
	)
	for _, key := range keys {
		f, ok := r.byKey[key]
		if !ok {
			invalid = append(invalid, key)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, f)
	}

	if len(invalid) > 0 {
		return nil, &model.InvalidColumnsError{Columns: invalid}
	}
	return fields, nil
}

// ExportRequest selects columns and an optional created_at range.
type ExportRequest struct {
	Columns []string `json:"columns"`
	Start   string   `json:"start,omitempty"`
	End     string   `json:"end,omitempty"`
	Format  string   `json:"format,omitempty" validate:"omitempty,oneof=json csv"`
}

// Export is the projected rows with the fields in requested order.
type Export struct {
	Fields []model.CaseField
	Rows   []map[string]any
}

type ExportService struct {
	reportRepository repository.ReportRepository
	registry         *FieldRegistry
	location         *time.Location
}

func NewExportService(reportRepository repository.ReportRepository, registry *FieldRegistry, location *time.Location) *ExportService {
	return &ExportService{
		reportRepository: reportRepository,
		registry:         registry,
		location:         location,
	}
}

func (s *ExportService) ListReportableFields() []Column {
	return s.registry.Columns()
}

// FieldsVersion identifies the registry revision, bumped whenever the case
// fields change shape.
func (s *ExportService) FieldsVersion() int {
	return s.registry.Version
}

// ListCaseTitlesInRange lists cases created within [start, end]. Both bounds
// are required and must parse.
func (s *ExportService) ListCaseTitlesInRange(ctx context.Context, start, end string) ([]model.CaseTitle, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, model.ErrRangeRequired
	}

	from, to, err := s.parseRange(start, end)
	if err != nil {
		return nil, err
	}

	return s.reportRepository.CaseTitlesBetween(ctx, from, to)
}

// ExportColumns projects the requested columns of every case. The range is
// applied only when both bounds are given.
func (s *ExportService) ExportColumns(ctx context.Context, req ExportRequest) (*Export, error) {
	fields, err := s.registry.Resolve(req.Columns)
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if strings.TrimSpace(req.Start) != "" && strings.TrimSpace(req.End) != "" {
		start, end, err := s.parseRange(req.Start, req.End)
		if err != nil {
			return nil, err
		}
		from, to = &start, &end
	}

	rows, err := s.reportRepository.ExportCases(ctx, fields, from, to)
	if err != nil {
		return nil, err
	}

	return &Export{Fields: fields, Rows: rows}, nil
}

func (s *ExportService) parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := validation.ParseDatetime(start, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, model.ErrInvalidDatetime
	}
	to, err := validation.ParseDatetime(end, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, model.ErrInvalidDatetime
	}
	return from, to, nil
}
