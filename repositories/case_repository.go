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

// insertBatchSize bounds the rows per INSERT statement during bulk ingestion.
const insertBatchSize = 500

// deleteChunkSize keeps each IN list under SQLite's bound-variable limit.
const deleteChunkSize = 500

// CaseRepository is the authoritative store of cases.
type CaseRepository interface {
	// ListPage returns cases ordered by id; page is 1-based.
	ListPage(ctx context.Context, page, pageSize int) (*models.CasePage, error)
	Get(ctx context.Context, id uint) (*models.Case, error)
	// ListByDateRange returns cases whose canonical date lies in [start, end].
	ListByDateRange(ctx context.Context, start, end string) ([]models.Case, error)
	// PageByDateRange is ListByDateRange ordered by date, one page at a time,
	// with the total number of matching cases.
	PageByDateRange(ctx context.Context, start, end string, page, pageSize int) ([]models.Case, int64, error)
	Create(ctx context.Context, in models.CaseInput) (*models.Case, error)
	// InsertMany validates each row on its own and inserts the valid ones.
	// Invalid rows are reported in the result rather than failing the batch.
	InsertMany(ctx context.Context, rows []models.CaseInput) (*InsertResult, error)
	Update(ctx context.Context, id uint, in models.CaseInput) (*models.Case, error)
	// DeleteByIDs rejects an empty id set; ids that match nothing are not an error.
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type InsertResult struct {
	Inserted int
	Received int
	Skipped  []SkippedRow
}

type SkippedRow struct {
	Index  int
	Reason string
}

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) ListPage(ctx context.Context, page, pageSize int) (*models.CasePage, error) {
	if err := validatePage(page, pageSize); err != nil {
		return nil, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Case{}).Count(&total).Error; err != nil {
		return nil, translate("count cases", err)
	}

	cases := []models.Case{}
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&cases).Error
	if err != nil {
		return nil, translate("list cases", err)
	}

	return &models.CasePage{
		Cases:      cases,
		Page:       page,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (r *caseRepository) Get(ctx context.Context, id uint) (*models.Case, error) {
	var c models.Case
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get case %d", id), err)
	}
	return &c, nil
}

func (r *caseRepository) ListByDateRange(ctx context.Context, start, end string) ([]models.Case, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	cases := []models.Case{}
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date, id").
		Find(&cases).Error
	if err != nil {
		return nil, translate("list cases by date", err)
	}
	return cases, nil
}

func (r *caseRepository) PageByDateRange(ctx context.Context, start, end string, page, pageSize int) ([]models.Case, int64, error) {
	if err := validateRange(start, end); err != nil {
		return nil, 0, err
	}
	if err := validatePage(page, pageSize); err != nil {
		return nil, 0, err
	}

	inRange := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Case{}).Where("date BETWEEN ? AND ?", start, end)
	}

	var total int64
	if err := inRange().Count(&total).Error; err != nil {
		return nil, 0, translate("count cases by date", err)
	}

	cases := []models.Case{}
	err := inRange().Order("date, id").Limit(pageSize).Offset((page - 1) * pageSize).Find(&cases).Error
	if err != nil {
		return nil, 0, translate("page cases by date", err)
	}
	return cases, total, nil
}

func (r *caseRepository) Create(ctx context.Context, in models.CaseInput) (*models.Case, error) {
	c, err := normalizeCase(in)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate("insert case", err)
	}
	return &c, nil
}

func (r *caseRepository) InsertMany(ctx context.Context, rows []models.CaseInput) (*InsertResult, error) {
	result := &InsertResult{Received: len(rows)}

	valid := make([]models.Case, 0, len(rows))
	for i, row := range rows {
		c, err := normalizeCase(row)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Index: i, Reason: err.Error()})
			continue
		}
		valid = append(valid, c)
	}

	if len(valid) > 0 {
		if err := r.db.WithContext(ctx).CreateInBatches(&valid, insertBatchSize).Error; err != nil {
			return nil, translate("insert cases", err)
		}
	}
	result.Inserted = len(valid)
	return result, nil
}

func (r *caseRepository) Update(ctx context.Context, id uint, in models.CaseInput) (*models.Case, error) {
	c, err := normalizeCase(in)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).Updates(map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"date":        c.Date,
		"type":        c.Type,
	})
	if res.Error != nil {
		return nil, translate(fmt.Sprintf("update case %d", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update case %d: %w", id, apperrors.ErrNotFound)
	}

	c.ID = id
	return &c, nil
}

func (r *caseRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.Invalid("ids", "no IDs provided")
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(ids); start += deleteChunkSize {
			end := min(start+deleteChunkSize, len(ids))
			res := tx.Where("id IN ?", ids[start:end]).Delete(&models.Case{})
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, translate("delete cases", err)
	}
	return deleted, nil
}

func (r *caseRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Case{})
	if res.Error != nil {
		return 0, translate("delete all cases", res.Error)
	}
	return res.RowsAffected, nil
}

// normalizeCase requires all four attributes to be non-empty once the date is canonical.
func normalizeCase(in models.CaseInput) (models.Case, error) {
	c := models.Case{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Type:        strings.TrimSpace(in.Type),
	}
	switch {
	case c.Name == "":
		return c, apperrors.Invalid("name", "required")
	case c.Description == "":
		return c, apperrors.Invalid("description", "required")
	case c.Type == "":
		return c, apperrors.Invalid("type", "required")
	}

	date, err := datenorm.Normalize(in.Date)
	if err != nil {
		return c, err
	}
	c.Date = date
	return c, nil
}

func validatePage(page, pageSize int) error {
	if page < 1 {
		return apperrors.Invalid("page", "must be at least 1")
	}
	if pageSize < 1 {
		return apperrors.Invalid("limit", "must be at least 1")
	}
	return nil
}

func validateRange(start, end string) error {
	if start == "" || end == "" {
		return apperrors.Invalid("date range", "start and end dates required")
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func (r *caseRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Case{}).Count(&total).Error; err != nil {
		return 0, translate("count cases", err)
	}
	return total, nil
}
