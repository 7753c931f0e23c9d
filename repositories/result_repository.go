package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"case-analysis/apperrors"
	"case-analysis/datenorm"
	"case-analysis/models"
)

// ResultRepository archives named analysis snapshots.
type ResultRepository interface {
	// Save writes the snapshot header and one row per analysed field in a
	// single transaction and returns the new result id.
	Save(ctx context.Context, name, start, end string, analysis []models.FieldAnalysis) (uint, error)
	// Get rehydrates a snapshot. Every row carries exactly three words.
	Get(ctx context.Context, id uint) (*models.ResultDetail, error)
	// List returns snapshot headers, newest first.
	List(ctx context.Context) ([]models.ResultSummary, error)
	Delete(ctx context.Context, id uint) error
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Save(ctx context.Context, name, start, end string, analysis []models.FieldAnalysis) (uint, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return 0, apperrors.Invalid("name", "required")
	case !datenorm.Valid(start):
		return 0, apperrors.Invalid("start_date", "must be YYYY-MM-DD")
	case !datenorm.Valid(end):
		return 0, apperrors.Invalid("end_date", "must be YYYY-MM-DD")
	case analysis == nil:
		return 0, apperrors.Invalid("analysis", "required")
	}

	result := models.AnalysisResult{Name: name, StartDate: start, EndDate: end}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&result).Error; err != nil {
			return translate("insert result", err)
		}
		if len(analysis) == 0 {
			return nil
		}

		rows := make([]models.ResultField, len(analysis))
		for i, a := range analysis {
			words := a.Words
			if words == nil {
				words = []string{}
			}
			rows[i] = models.ResultField{
				ResultID:        result.ID,
				FieldID:         a.FieldID,
				FieldName:       a.FieldName,
				OccurrenceCount: a.TotalOccurrences,
				Percentage:      a.Percentage.Round(2),
				Words:           words,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return translate(fmt.Sprintf("insert fields of result %d", result.ID), err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result.ID, nil
}

func (r *resultRepository) Get(ctx context.Context, id uint) (*models.ResultDetail, error) {
	var result models.AnalysisResult
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("field_id, id") }).
		First(&result, id).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("get result %d", id), err)
	}

	detail := &models.ResultDetail{
		ResultSummary: summary(result),
		Result:        make([]models.FieldAnalysis, len(result.Fields)),
	}
	for i, f := range result.Fields {
		detail.Result[i] = models.FieldAnalysis{
			FieldID:          f.FieldID,
			FieldName:        f.FieldName,
			TotalOccurrences: f.OccurrenceCount,
			Percentage:       models.NewPercent(f.Percentage),
			Words:            models.PadWords(f.Words, models.SnapshotWordCount),
		}
	}
	return detail, nil
}

func (r *resultRepository) List(ctx context.Context) ([]models.ResultSummary, error) {
	results := []models.AnalysisResult{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&results).Error; err != nil {
		return nil, translate("list results", err)
	}

	out := make([]models.ResultSummary, len(results))
	for i, res := range results {
		out[i] = summary(res)
	}
	return out, nil
}

func (r *resultRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", id).Delete(&models.ResultField{}).Error; err != nil {
			return translate(fmt.Sprintf("delete fields of result %d", id), err)
		}
		res := tx.Delete(&models.AnalysisResult{}, id)
		if res.Error != nil {
			return translate(fmt.Sprintf("delete result %d", id), res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete result %d: %w", id, apperrors.ErrNotFound)
		}
		return nil
	})
}

func summary(r models.AnalysisResult) models.ResultSummary {
	return models.ResultSummary{
		ID:        r.ID,
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}
