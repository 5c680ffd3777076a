package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/testutil"
)

func labels(counts []model.GroupCount) map[string]int64 {
	out := map[string]int64{}
	for _, c := range counts {
		key := "<nil>"
		if c.Label != nil {
			key = *c.Label
		}
		out[key] = c.Count
	}
	return out
}

func TestUsersByRole(t *testing.T) {
	database := testutil.NewDB(t)
	reports := repository.NewReportRepository(database)

	testutil.CreateUser(t, database, "a", "pw", testutil.WithRole(1))
	testutil.CreateUser(t, database, "b", "pw", testutil.WithRole(2))
	testutil.CreateUser(t, database, "c", "pw", testutil.WithRole(2))
	testutil.CreateUser(t, database, "d", "pw")

	counts, err := reports.UsersByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Admin": 1, "Officer": 2, "<nil>": 1}, labels(counts))

	// SQLite sorts NULL first
	require.Len(t, counts, 3)
	assert.Nil(t, counts[0].Label)
	assert.Equal(t, "Admin", *counts[1].Label)
	assert.Equal(t, "Officer", *counts[2].Label)
}

func TestCasesByLookupBetween(t *testing.T) {
	database := testutil.NewDB(t)
	reports := repository.NewReportRepository(database)
	reporter := testutil.CreateUser(t, database, "r", "pw")

	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	add := func(at time.Time, status, caseType *int64) {
		testutil.CreateCase(t, database, &model.Case{
			Title: "t", Description: "d", ReporterID: reporter.ID,
			StatusID: status, CaseTypeID: caseType, CreatedAt: at,
		})
	}
	add(day.Add(time.Hour), testutil.Int64(1), testutil.Int64(1))
	add(day.Add(2*time.Hour), testutil.Int64(1), testutil.Int64(2))
	add(day.Add(3*time.Hour), nil, nil)
	add(day, testutil.Int64(3), testutil.Int64(2))
	add(day.Add(-time.Second), testutil.Int64(2), testutil.Int64(1)) // previous day
	add(day.Add(24*time.Hour), testutil.Int64(2), testutil.Int64(1)) // next day

	byStatus, err := reports.CasesByStatusBetween(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Pending": 2, "Resolved": 1, "<nil>": 1}, labels(byStatus))

	byType, err := reports.CasesByTypeBetween(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Road": 1, "Water": 2, "<nil>": 1}, labels(byType))
}

func TestCaseTitlesBetweenInclusive(t *testing.T) {
	database := testutil.NewDB(t)
	reports := repository.NewReportRepository(database)
	reporter := testutil.CreateUser(t, database, "r", "pw")

	a := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	testutil.CreateCase(t, database, &model.Case{Title: "A", Description: "d", ReporterID: reporter.ID, CreatedAt: a})
	testutil.CreateCase(t, database, &model.Case{Title: "B", Description: "d", ReporterID: reporter.ID, CreatedAt: b})

	titles, err := reports.CaseTitlesBetween(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "A", titles[0].Title)
	assert.True(t, a.Equal(titles[0].CreatedAt))

	// both bounds are inclusive
	titles, err = reports.CaseTitlesBetween(context.Background(), a, b)
	require.NoError(t, err)
	assert.Len(t, titles, 2)
}

func TestExportCases(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	reports := repository.NewReportRepository(database)
	reporter := testutil.CreateUser(t, database, "r", "pw")

	a := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	testutil.CreateCase(t, database, &model.Case{Title: "A", Description: "d", ReporterID: reporter.ID, CreatedAt: a, Location: testutil.String("Here")})
	testutil.CreateCase(t, database, &model.Case{Title: "B", Description: "d", ReporterID: reporter.ID, CreatedAt: b})

	fields := []model.CaseField{
		{Key: "title", Column: "title"},
		{Key: "location", Column: "location"},
		{Key: "reporter", Column: "reporter_id"},
	}

	t.Run("no range returns all", func(t *testing.T) {
		rows, err := reports.ExportCases(ctx, fields, nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0]["title"])
		assert.Equal(t, "Here", rows[0]["location"])
		assert.EqualValues(t, reporter.ID, rows[0]["reporter"])

		// every requested key is present, NULL included
		assert.Contains(t, rows[1], "location")
		assert.Nil(t, rows[1]["location"])
		assert.Len(t, rows[1], 3)
	})

	t.Run("inclusive range", func(t *testing.T) {
		rows, err := reports.ExportCases(ctx, fields, &a, &a)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "A", rows[0]["title"])

		rows, err = reports.ExportCases(ctx, fields, &a, &b)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("single bound is ignored", func(t *testing.T) {
		rows, err := reports.ExportCases(ctx, fields, &b, nil)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
