package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/casetrack/casetrack/internal/model"
)

// Lookup tables referenced by users and cases.
const (
	TableRoles        = "roles"
	TableCaseTypes    = "case_types"
	TableCaseStatuses = "case_statuses"
)

type LookupRepository interface {
	List(ctx context.Context) ([]model.Lookup, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type lookupRepository struct {
	db    *sqlx.DB
	table string
}

// NewLookupRepository serves one of the Table* constants.
func NewLookupRepository(db *sqlx.DB, table string) LookupRepository {
	return &lookupRepository{db: db, table: table}
}

func (r *lookupRepository) List(ctx context.Context) ([]model.Lookup, error) {
	items := []model.Lookup{}
	query := `SELECT id, name, description FROM ` + r.table + ` ORDER BY id ASC`

	err := r.db.SelectContext(ctx, &items, query)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", r.table)
	}

	return items, nil
}

func (r *lookupRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + r.table + ` WHERE id = $1)`

	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, errors.Wrapf(err, "check %s exists", r.table)
	}

	return exists, nil
}
