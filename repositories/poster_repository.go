package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"case-analysis/apperrors"
	"case-analysis/models"
)

// PosterRepository stores posters. The result reference is never validated.
type PosterRepository interface {
	Save(ctx context.Context, p *models.Poster) error
	Get(ctx context.Context, id uint) (*models.Poster, error)
	// List returns posters, newest first.
	List(ctx context.Context) ([]models.Poster, error)
}

type posterRepository struct {
	db *gorm.DB
}

func NewPosterRepository(db *gorm.DB) PosterRepository {
	return &posterRepository{db: db}
}

func (r *posterRepository) Save(ctx context.Context, p *models.Poster) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return apperrors.Invalid("name", "required")
	case strings.TrimSpace(p.PosterURL) == "":
		return apperrors.Invalid("poster_url", "required")
	}
	if p.TextSize == 0 {
		p.TextSize = models.DefaultPosterTextSize
	}
	if p.TextColor == "" {
		p.TextColor = models.DefaultPosterTextColor
	}

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate("insert poster", err)
	}
	return nil
}

func (r *posterRepository) Get(ctx context.Context, id uint) (*models.Poster, error) {
	var p models.Poster
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get poster %d", id), err)
	}
	return &p, nil
}

func (r *posterRepository) List(ctx context.Context) ([]models.Poster, error) {
	posters := []models.Poster{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&posters).Error; err != nil {
		return nil, translate("list posters", err)
	}
	return posters, nil
}
