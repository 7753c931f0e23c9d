package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"case-analysis/apperrors"
	"case-analysis/models"
)

const (
	defaultFieldCount = 5
	defaultWordCount  = 3
)

// FieldRepository manages analytical fields and their match words.
type FieldRepository interface {
	ListFields(ctx context.Context) ([]models.Field, error)
	GetField(ctx context.Context, id uint) (*models.Field, error)
	AddField(ctx context.Context, name string) (*models.Field, error)
	// DeleteField removes the field and all of its words.
	DeleteField(ctx context.Context, id uint) error

	// ListWords returns a field's words ordered by position.
	ListWords(ctx context.Context, fieldID uint) ([]models.Word, error)
	// ListAllWords returns every word ordered by field, then position.
	ListAllWords(ctx context.Context) ([]models.Word, error)
	// AddWord fails with apperrors.ErrConflict if the position is taken.
	AddWord(ctx context.Context, fieldID uint, position int, term string) (*models.Word, error)
	DeleteWord(ctx context.Context, id uint) error
	DeleteAllWords(ctx context.Context) (int64, error)

	// ResetAll deletes all words, then all fields.
	ResetAll(ctx context.Context) error
	// BootstrapDefault creates fields f1..f5, each with words f<i>w1..f<i>w3.
	BootstrapDefault(ctx context.Context) ([]models.Field, error)
}

type fieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) ListFields(ctx context.Context) ([]models.Field, error) {
	fields := []models.Field{}
	if err := r.db.WithContext(ctx).Order("id").Find(&fields).Error; err != nil {
		return nil, translate("list fields", err)
	}
	return fields, nil
}

func (r *fieldRepository) GetField(ctx context.Context, id uint) (*models.Field, error) {
	var f models.Field
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get field %d", id), err)
	}
	return &f, nil
}

func (r *fieldRepository) AddField(ctx context.Context, name string) (*models.Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Invalid("field", "required")
	}
	f := models.Field{Name: name}
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, translate("insert field", err)
	}
	return &f, nil
}

func (r *fieldRepository) DeleteField(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.Word{}).Error; err != nil {
			return translate(fmt.Sprintf("delete words of field %d", id), err)
		}
		res := tx.Delete(&models.Field{}, id)
		if res.Error != nil {
			return translate(fmt.Sprintf("delete field %d", id), res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete field %d: %w", id, apperrors.ErrNotFound)
		}
		return nil
	})
}

func (r *fieldRepository) ListWords(ctx context.Context, fieldID uint) ([]models.Word, error) {
	words := []models.Word{}
	err := r.db.WithContext(ctx).Where("field_id = ?", fieldID).Order("word_no").Find(&words).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("list words of field %d", fieldID), err)
	}
	return words, nil
}

func (r *fieldRepository) ListAllWords(ctx context.Context) ([]models.Word, error) {
	words := []models.Word{}
	if err := r.db.WithContext(ctx).Order("field_id, word_no").Find(&words).Error; err != nil {
		return nil, translate("list words", err)
	}
	return words, nil
}

func (r *fieldRepository) AddWord(ctx context.Context, fieldID uint, position int, term string) (*models.Word, error) {
	switch {
	case fieldID == 0:
		return nil, apperrors.Invalid("field_id", "required")
	case position < 1:
		return nil, apperrors.Invalid("word_no", "must be at least 1")
	case term == "":
		return nil, apperrors.Invalid("field_word", "required")
	}

	if _, err := r.GetField(ctx, fieldID); err != nil {
		return nil, err
	}

	w := models.Word{FieldID: fieldID, Position: position, Term: term}
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, translate(fmt.Sprintf("insert word %d of field %d", position, fieldID), err)
	}
	return &w, nil
}

func (r *fieldRepository) DeleteWord(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Word{}, id)
	if res.Error != nil {
		return translate(fmt.Sprintf("delete word %d", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete word %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *fieldRepository) DeleteAllWords(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Word{})
	if res.Error != nil {
		return 0, translate("delete all words", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *fieldRepository) ResetAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Word{}).Error; err != nil {
			return translate("delete all words", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Field{}).Error; err != nil {
			return translate("delete all fields", err)
		}
		return nil
	})
}

func (r *fieldRepository) BootstrapDefault(ctx context.Context) ([]models.Field, error) {
	fields := make([]models.Field, 0, defaultFieldCount)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= defaultFieldCount; i++ {
			f := models.Field{Name: fmt.Sprintf("f%d", i)}
			if err := tx.Create(&f).Error; err != nil {
				return translate("insert default field", err)
			}
			for w := 1; w <= defaultWordCount; w++ {
				word := models.Word{FieldID: f.ID, Position: w, Term: fmt.Sprintf("f%dw%d", i, w)}
				if err := tx.Create(&word).Error; err != nil {
					return translate("insert default word", err)
				}
			}
			fields = append(fields, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}
