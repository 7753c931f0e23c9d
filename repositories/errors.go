package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"case-analysis/apperrors"
)

// translate maps gorm failures onto the application error taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	default:
		return apperrors.Persistence(op, err)
	}
}
