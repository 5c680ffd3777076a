package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/casetrack/casetrack/internal/model"
)

// ReportRepository holds the read-only queries behind exports and dashboards.
// Grouped counts order by label ascending; where the NULL group sorts is left
// to the database (first on SQLite, last on PostgreSQL).
type ReportRepository interface {
	UsersByRole(ctx context.Context) ([]model.GroupCount, error)
	CasesByStatusBetween(ctx context.Context, from, to time.Time) ([]model.GroupCount, error)
	CasesByTypeBetween(ctx context.Context, from, to time.Time) ([]model.GroupCount, error)
	CaseTitlesBetween(ctx context.Context, start, end time.Time) ([]model.CaseTitle, error)
	ExportCases(ctx context.Context, fields []model.CaseField, start, end *time.Time) ([]map[string]any, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) UsersByRole(ctx context.Context) ([]model.GroupCount, error) {
	counts := []model.GroupCount{}
	query := `SELECT r.name AS label, COUNT(u.id) AS count
	          FROM users u LEFT JOIN roles r ON r.id = u.role_id
	          GROUP BY r.name
	          ORDER BY r.name ASC`

	err := r.db.SelectContext(ctx, &counts, query)
	if err != nil {
		return nil, errors.Wrap(err, "count users by role")
	}

	return counts, nil
}

// CasesByStatusBetween counts cases created in [from, to) per status name.
func (r *reportRepository) CasesByStatusBetween(ctx context.Context, from, to time.Time) ([]model.GroupCount, error) {
	return r.casesByLookup(ctx, TableCaseStatuses, "status_id", from, to)
}

// CasesByTypeBetween counts cases created in [from, to) per case type name.
func (r *reportRepository) CasesByTypeBetween(ctx context.Context, from, to time.Time) ([]model.GroupCount, error) {
	return r.casesByLookup(ctx, TableCaseTypes, "case_type_id", from, to)
}

func (r *reportRepository) casesByLookup(ctx context.Context, table, fk string, from, to time.Time) ([]model.GroupCount, error) {
	counts := []model.GroupCount{}
	query := fmt.Sprintf(`SELECT l.name AS label, COUNT(c.id) AS count
	          FROM cases c LEFT JOIN %s l ON l.id = c.%s
	          WHERE c.created_at >= $1 AND c.created_at < $2
	          GROUP BY l.name
	          ORDER BY l.name ASC`, table, fk)

	err := r.db.SelectContext(ctx, &counts, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, errors.Wrapf(err, "count cases by %s", table)
	}

	return counts, nil
}

// CaseTitlesBetween lists cases created in [start, end], both ends inclusive.
func (r *reportRepository) CaseTitlesBetween(ctx context.Context, start, end time.Time) ([]model.CaseTitle, error) {
	titles := []model.CaseTitle{}
	query := `SELECT title, created_at FROM cases
	          WHERE created_at >= $1 AND created_at <= $2
	          ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &titles, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "list case titles")
	}

	return titles, nil
}

// ExportCases projects the given fields of every case, keyed by field key.
// The created_at filter applies only when both bounds are set.
func (r *reportRepository) ExportCases(ctx context.Context, fields []model.CaseField, start, end *time.Time) ([]map[string]any, error) {
	if len(fields) == 0 {
		return nil, model.ErrColumnsRequired
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = fmt.Sprintf(`%s AS "%s"`, f.Column, f.Key)
	}

	builder := sq.Select(columns...).
		From("cases").
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar)
	if start != nil && end != nil {
		builder = builder.Where(sq.And{
			sq.GtOrEq{"created_at": start.UTC()},
			sq.LtOrEq{"created_at": end.UTC()},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build export query")
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "export cases")
	}
	defer func() { _ = rows.Close() }()

	result := []map[string]any{}
	for rows.Next() {
		row := make(map[string]any, len(fields))
		err = rows.MapScan(row)
		if err != nil {
			return nil, errors.Wrap(err, "scan export row")
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		for _, f := range fields {
			if _, ok := row[f.Key]; !ok {
				row[f.Key] = nil
			}
		}
		result = append(result, row)
	}

	return result, errors.Wrap(rows.Err(), "iterate export rows")
}
