package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"case-analysis/apperrors"
	"case-analysis/models"
	"case-analysis/testhelpers"
)

func percent(s string) models.Percent {
	return models.NewPercent(decimal.RequireFromString(s))
}

func TestResultRepository_RoundTripPadsWords(t *testing.T) {
	repo := NewResultRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	analysis := []models.FieldAnalysis{
		{FieldID: 2, FieldName: "two words", TotalOccurrences: 1, Percentage: percent("33.33"), Words: []string{"a", "b"}},
		{FieldID: 1, FieldName: "five words", TotalOccurrences: 2, Percentage: percent("66.67"), Words: []string{"1", "2", "3", "4", "5"}},
		{FieldID: 3, FieldName: "no words", TotalOccurrences: 0, Percentage: percent("0"), Words: nil},
	}

	id, err := repo.Save(ctx, "March", "2024-03-01", "2024-03-31", analysis)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "March", got.Name)
	assert.Equal(t, "2024-03-01", got.StartDate)
	assert.Equal(t, "2024-03-31", got.EndDate)
	require.Len(t, got.Result, 3)

	for _, r := range got.Result {
		assert.Len(t, r.Words, models.SnapshotWordCount)
	}
	assert.Equal(t, uint(1), got.Result[0].FieldID)
	assert.Equal(t, []string{"1", "2", "3"}, got.Result[0].Words)
	assert.Equal(t, "66.67", got.Result[0].Percentage.String())
	assert.Equal(t, 2, got.Result[0].TotalOccurrences)
	assert.Equal(t, "five words", got.Result[0].FieldName)

	assert.Equal(t, []string{"a", "b", ""}, got.Result[1].Words)
	assert.Equal(t, []string{"", "", ""}, got.Result[2].Words)
	assert.Equal(t, "0.00", got.Result[2].Percentage.String())
}

func TestResultRepository_SnapshotIgnoresRegistryChanges(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	results := NewResultRepository(db)
	fields := NewFieldRepository(db)
	ctx := context.Background()

	f, err := fields.AddField(ctx, "a")
	require.NoError(t, err)
	_, err = fields.AddWord(ctx, f.ID, 1, "x")
	require.NoError(t, err)

	id, err := results.Save(ctx, "snap", "2024-01-01", "2024-01-31", []models.FieldAnalysis{
		{FieldID: f.ID, FieldName: "a", TotalOccurrences: 4, Percentage: percent("100"), Words: []string{"x"}},
	})
	require.NoError(t, err)

	require.NoError(t, fields.ResetAll(ctx))

	got, err := results.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Result, 1)
	assert.Equal(t, "a", got.Result[0].FieldName)
	assert.Equal(t, []string{"x", "", ""}, got.Result[0].Words)
	assert.Equal(t, "100.00", got.Result[0].Percentage.String())
}

func TestResultRepository_SaveValidation(t *testing.T) {
	repo := NewResultRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()
	analysis := []models.FieldAnalysis{}

	_, err := repo.Save(ctx, "", "2024-01-01", "2024-01-31", analysis)
	assert.True(t, apperrors.IsValidation(err))
	_, err = repo.Save(ctx, "n", "2024/01/01", "2024-01-31", analysis)
	assert.True(t, apperrors.IsValidation(err))
	_, err = repo.Save(ctx, "n", "2024-01-01", "", analysis)
	assert.True(t, apperrors.IsValidation(err))
	_, err = repo.Save(ctx, "n", "2024-01-01", "2024-01-31", nil)
	assert.True(t, apperrors.IsValidation(err))

	id, err := repo.Save(ctx, "n", "2024-01-01", "2024-01-31", analysis)
	require.NoError(t, err)
	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Result)
}

func TestResultRepository_SaveIsAtomic(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	repo := NewResultRepository(db)
	ctx := context.Background()

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_result_fields", func(tx *gorm.DB) {
		if tx.Statement.Table == "result_fields" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = repo.Save(ctx, "broken", "2024-01-01", "2024-01-31", []models.FieldAnalysis{
		{FieldID: 1, FieldName: "a", Percentage: percent("100")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "parent row must roll back with its children")
}

func TestResultRepository_SaveRepeatedFieldID(t *testing.T) {
	repo := NewResultRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	id, err := repo.Save(ctx, "dup", "2024-01-01", "2024-01-31", []models.FieldAnalysis{
		{FieldID: 1, FieldName: "a", TotalOccurrences: 1, Percentage: percent("50")},
		{FieldID: 1, FieldName: "a again", TotalOccurrences: 1, Percentage: percent("50")},
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Result, 2)
	assert.Equal(t, "a", got.Result[0].FieldName)
	assert.Equal(t, "a again", got.Result[1].FieldName)
}

func TestResultRepository_ListNewestFirst(t *testing.T) {
	repo := NewResultRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.Save(ctx, name, "2024-01-01", "2024-01-31", []models.FieldAnalysis{})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "first", list[2].Name)
}

func TestResultRepository_GetAndDeleteMissing(t *testing.T) {
	repo := NewResultRepository(testhelpers.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	id, err := repo.Save(ctx, "n", "2024-01-01", "2024-01-31", []models.FieldAnalysis{
		{FieldID: 1, Percentage: percent("100"), Words: []string{"w"}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), apperrors.ErrNotFound)
}
