package repository

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/casetrack/casetrack/internal/model"
)

type CaseRepository interface {
	ByID(ctx context.Context, id int64) (*model.Case, error)
	Images(ctx context.Context, caseID int64) ([]model.CaseImage, error)
	// InTx runs fn in one transaction, committing only when fn returns nil.
	InTx(ctx context.Context, fn func(w CaseWriter) error) error
}

// CaseWriter writes a case and its images inside a transaction.
type CaseWriter interface {
	InsertCase(ctx context.Context, c *model.Case) error
	InsertImage(ctx context.Context, img *model.CaseImage) error
	SetImageKey(ctx context.Context, imageID int64, key string) error
}

type caseRepository struct {
	db *sqlx.DB
}

func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) ByID(ctx context.Context, id int64) (*model.Case, error) {
	c := &model.Case{}
	query := `SELECT id, title, description, reporter_id, created_by_id, case_type_id, status_id, created_at, location
	          FROM cases WHERE id = $1`

	err := r.db.GetContext(ctx, c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCaseNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get case")
	}

	return c, nil
}

func (r *caseRepository) Images(ctx context.Context, caseID int64) ([]model.CaseImage, error) {
	images := []model.CaseImage{}
	query := `SELECT id, case_id, image, uploaded_at FROM case_images WHERE case_id = $1 ORDER BY id ASC`

	err := r.db.SelectContext(ctx, &images, query, caseID)
	if err != nil {
		return nil, errors.Wrap(err, "list case images")
	}

	return images, nil
}

func (r *caseRepository) InTx(ctx context.Context, fn func(w CaseWriter) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	err = fn(&caseWriter{tx: tx})
	if err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "commit transaction")
}

type caseWriter struct {
	tx *sqlx.Tx
}

func (w *caseWriter) InsertCase(ctx context.Context, c *model.Case) error {
	query := `INSERT INTO cases (title, description, reporter_id, created_by_id, case_type_id, status_id, created_at, location)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := w.tx.QueryRowxContext(ctx, query,
		c.Title, c.Description, c.ReporterID, c.CreatedByID, c.CaseTypeID, c.StatusID, c.CreatedAt.UTC(), c.Location,
	).Scan(&c.ID)
	return errors.Wrap(err, "insert case")
}

func (w *caseWriter) InsertImage(ctx context.Context, img *model.CaseImage) error {
	query := `INSERT INTO case_images (case_id, image, uploaded_at) VALUES ($1, $2, $3) RETURNING id`

	err := w.tx.QueryRowxContext(ctx, query, img.CaseID, img.Image, img.UploadedAt.UTC()).Scan(&img.ID)
	return errors.Wrap(err, "insert case image")
}

func (w *caseWriter) SetImageKey(ctx context.Context, imageID int64, key string) error {
	_, err := w.tx.ExecContext(ctx, `UPDATE case_images SET image = $1 WHERE id = $2`, key, imageID)
	return errors.Wrap(err, "set case image key")
}
