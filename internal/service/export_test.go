package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/testutil"
)

func TestFieldRegistryColumns(t *testing.T) {
	registry := NewFieldRegistry(model.CaseFields, model.CaseFieldsVersion)

	want := []Column{
		{"id", "Id"},
		{"title", "Title"},
		{"description", "Description"},
		{"reporter", "Reporter"},
		{"created_by", "Created By"},
		{"case_type", "Case Type"},
		{"status", "Status"},
		{"created_at", "Created At"},
		{"location", "Location"},
	}
	assert.Equal(t, want, registry.Columns())
}

func TestFieldRegistryResolve(t *testing.T) {
	registry := NewFieldRegistry(model.CaseFields, model.CaseFieldsVersion)

	fields, err := registry.Resolve([]string{"status", "title", "status"})
	require.NoError(t, err)
	assert.Equal(t, []model.CaseField{{Key: "status", Column: "status_id"}, {Key: "title", Column: "title"}}, fields)

	_, err = registry.Resolve([]string{"title", "secret", "status_id"})
	var invalid *model.InvalidColumnsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"secret", "status_id"}, invalid.Columns)

	_, err = registry.Resolve(nil)
	assert.True(t, errors.Is(err, model.ErrColumnsRequired))
}

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	database := testutil.NewDB(t)
	reporter := testutil.CreateUser(t, database, "r", "pw")

	testutil.CreateCase(t, database, &model.Case{
		Title: "A", Description: "d", ReporterID: reporter.ID,
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	})
	testutil.CreateCase(t, database, &model.Case{
		Title: "B", Description: "d", ReporterID: reporter.ID,
		CreatedAt: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
	})

	return NewExportService(
		repository.NewReportRepository(database),
		NewFieldRegistry(model.CaseFields, model.CaseFieldsVersion),
		time.UTC,
	)
}

func TestExportFieldsVersion(t *testing.T) {
	svc := newExportFixture(t)
	assert.Equal(t, model.CaseFieldsVersion, svc.FieldsVersion())
}

func TestListCaseTitlesInRange(t *testing.T) {
	svc := newExportFixture(t)
	ctx := context.Background()

	titles, err := svc.ListCaseTitlesInRange(ctx, "2025-01-01T00:00Z", "2025-01-02T00:00Z")
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "A", titles[0].Title)
	assert.True(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC).Equal(titles[0].CreatedAt))

	_, err = svc.ListCaseTitlesInRange(ctx, "2025-01-01", "")
	assert.True(t, errors.Is(err, model.ErrRangeRequired))

	_, err = svc.ListCaseTitlesInRange(ctx, "2025-01-01", "soon")
	assert.True(t, errors.Is(err, model.ErrInvalidDatetime))
}

func TestExportColumns(t *testing.T) {
	svc := newExportFixture(t)
	ctx := context.Background()

	t.Run("all rows without range", func(t *testing.T) {
		export, err := svc.ExportColumns(ctx, ExportRequest{Columns: []string{"title", "created_by"}})
		require.NoError(t, err)
		require.Len(t, export.Rows, 2)
		for _, row := range export.Rows {
			assert.Len(t, row, 2)
			assert.Contains(t, row, "created_by")
			assert.Nil(t, row["created_by"])
		}
	})

	t.Run("range is inclusive", func(t *testing.T) {
		export, err := svc.ExportColumns(ctx, ExportRequest{
			Columns: []string{"title"},
			Start:   "2025-01-01T10:00:00Z",
			End:     "2025-01-05T10:00:00Z",
		})
		require.NoError(t, err)
		assert.Len(t, export.Rows, 2)
	})

	t.Run("one bound is ignored", func(t *testing.T) {
		export, err := svc.ExportColumns(ctx, ExportRequest{Columns: []string{"title"}, Start: "2025-01-04"})
		require.NoError(t, err)
		assert.Len(t, export.Rows, 2)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := svc.ExportColumns(ctx, ExportRequest{Columns: []string{"title"}, Start: "x", End: "2025-01-04"})
		assert.True(t, errors.Is(err, model.ErrInvalidDatetime))
	})

	t.Run("invalid columns", func(t *testing.T) {
		_, err := svc.ExportColumns(ctx, ExportRequest{Columns: []string{"title", "password"}})
		assert.EqualError(t, err, "Invalid columns: ['password']")
	})
}
