package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"case-analysis/apperrors"
	"case-analysis/models"
	"case-analysis/testhelpers"
)

func seedCases(t *testing.T, repo CaseRepository, dates ...string) {
	t.Helper()
	rows := make([]models.CaseInput, len(dates))
	for i, d := range dates {
		rows[i] = models.CaseInput{
			Name:        fmt.Sprintf("case %d", i+1),
			Description: "description",
			Date:        d,
			Type:        "通信販売",
		}
	}
	res, err := repo.InsertMany(context.Background(), rows)
	require.NoError(t, err)
	require.Equal(t, len(dates), res.Inserted)
}

func TestCaseRepository_InsertMany_PartialSuccess(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	rows := []models.CaseInput{
		{Name: "ok iso", Description: "d", Date: "2024-03-29", Type: "訪問販売"},
		{Name: "ok japanese", Description: "d", Date: "2024年3月9日", Type: "訪問販売"},
		{Name: "ok serial", Description: "d", Date: float64(45000), Type: "訪問販売"},
		{Name: "bad date", Description: "d", Date: "yesterday", Type: "訪問販売"},
		{Name: "", Description: "d", Date: "2024-03-29", Type: "訪問販売"},
		{Name: "no type", Description: "d", Date: "2024-03-29", Type: "  "},
	}

	res, err := repo.InsertMany(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 6, res.Received)
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, 3, res.Skipped[0].Index)
	assert.Equal(t, 4, res.Skipped[1].Index)
	assert.Equal(t, 5, res.Skipped[2].Index)

	page, err := repo.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Cases, 3)
	assert.Equal(t, "2024-03-29", page.Cases[0].Date)
	assert.Equal(t, "2024-03-09", page.Cases[1].Date)
	assert.Equal(t, "2023-03-15", page.Cases[2].Date)
}

func TestCaseRepository_InsertMany_NothingValid(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))

	res, err := repo.InsertMany(context.Background(), []models.CaseInput{{Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Received)
}

func TestCaseRepository_ListPage(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	seedCases(t, repo, "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")

	page, err := repo.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Cases, 2)
	assert.Equal(t, uint(3), page.Cases[0].ID)
	assert.Equal(t, uint(4), page.Cases[1].ID)

	last, err := repo.ListPage(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Cases, 1)

	beyond, err := repo.ListPage(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Cases)
	assert.NotNil(t, beyond.Cases)

	_, err = repo.ListPage(ctx, 0, 2)
	assert.True(t, apperrors.IsValidation(err))
	_, err = repo.ListPage(ctx, 1, 0)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCaseRepository_ListPage_Empty(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))

	page, err := repo.ListPage(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Cases)
}

func TestCaseRepository_ListByDateRange_Inclusive(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	dates := []string{"2023-12-31", "2024-01-01", "2024-01-15", "2024-01-31", "2024-02-01"}
	seedCases(t, repo, dates...)

	ranges := [][2]string{
		{"2024-01-01", "2024-01-31"},
		{"2023-01-01", "2025-01-01"},
		{"2024-01-15", "2024-01-15"},
		{"2024-03-01", "2024-04-01"},
		{"2024-02-01", "2024-01-01"},
	}
	for _, rg := range ranges {
		got, err := repo.ListByDateRange(ctx, rg[0], rg[1])
		require.NoError(t, err)

		var want []string
		for _, d := range dates {
			if d >= rg[0] && d <= rg[1] {
				want = append(want, d)
			}
		}
		var gotDates []string
		for _, c := range got {
			gotDates = append(gotDates, c.Date)
		}
		assert.Equal(t, want, gotDates, "range %v", rg)
	}

	_, err := repo.ListByDateRange(ctx, "", "2024-01-01")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCaseRepository_PageByDateRange(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	seedCases(t, repo, "2024-01-03", "2024-01-01", "2024-01-02", "2025-01-01")

	cases, total, err := repo.PageByDateRange(ctx, "2024-01-01", "2024-12-31", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, cases, 2)
	assert.Equal(t, "2024-01-01", cases[0].Date)
	assert.Equal(t, "2024-01-02", cases[1].Date)
}

func TestCaseRepository_GetCreateUpdate(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CaseInput{Name: "n", Description: "d", Date: "2024年1月2日", Type: "t"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", created.Date)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	updated, err := repo.Update(ctx, created.ID, models.CaseInput{Name: "n2", Description: "d2", Date: "2024-02-03", Type: "t2"})
	require.NoError(t, err)
	assert.Equal(t, "n2", updated.Name)

	got, err = repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03", got.Date)
	assert.Equal(t, "t2", got.Type)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.Update(ctx, 999, models.CaseInput{Name: "n", Description: "d", Date: "2024-02-03", Type: "t"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.Update(ctx, created.ID, models.CaseInput{Name: "n", Description: "d", Date: "bad", Type: "t"})
	assert.True(t, apperrors.IsNormalization(err))

	_, err = repo.Create(ctx, models.CaseInput{Name: "n", Date: "2024-01-01", Type: "t"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCaseRepository_DeleteByIDs(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	seedCases(t, repo, "2024-01-01", "2024-01-02", "2024-01-03")

	_, err := repo.DeleteByIDs(ctx, []uint{})
	assert.True(t, apperrors.IsValidation(err))
	_, err = repo.DeleteByIDs(ctx, nil)
	assert.True(t, apperrors.IsValidation(err))

	n, err := repo.DeleteByIDs(ctx, []uint{100, 200})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.DeleteByIDs(ctx, []uint{1, 3, 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	page, err := repo.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Cases, 1)
	assert.Equal(t, uint(2), page.Cases[0].ID)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCaseRepository_DeleteByIDsLargeSet(t *testing.T) {
	repo := NewCaseRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	seedCases(t, repo, "2024-01-01", "2024-01-02", "2024-01-03")

	// Far more ids than SQLite accepts as bound variables in one statement.
	ids := make([]uint, 0, 40000)
	for id := uint(100); len(ids) < 40000-2; id++ {
		ids = append(ids, id)
	}
	ids = append(ids, 1, 3)

	n, err := repo.DeleteByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
