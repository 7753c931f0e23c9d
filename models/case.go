package models

import "fmt"

// Case is one consumer-complaint record. Date is always the canonical
// YYYY-MM-DD form so that string comparison orders by calendar day.
type Case struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"not null"`
	Date        string `json:"date" gorm:"type:text;not null;index"`
	Type        string `json:"type" gorm:"not null"`
}

// CaseInput carries caller-supplied case fields before normalization.
// Date is left untyped because uploads mix strings and spreadsheet serials.
type CaseInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        any    `json:"date"`
	Type        string `json:"type"`
}

type CasePage struct {
	Cases      []Case `json:"cases"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

// Header aliases accepted in uploaded rows, first non-empty wins.
var (
	nameKeys        = []string{"［件名］", "件名", "name"}
	descriptionKeys = []string{"［相談概要］", "相談概要", "description"}
	dateKeys        = []string{"［受付年月日］", "受付年月日", "date"}
	typeKeys        = []string{"［販売購入形態］", "販売購入形態", "type"}
)

// CaseInputFromRow maps a raw uploaded row onto a CaseInput. The date value is
// passed through untouched so spreadsheet serials keep their numeric type.
func CaseInputFromRow(row map[string]any) CaseInput {
	return CaseInput{
		Name:        text(pick(row, nameKeys)),
		Description: text(pick(row, descriptionKeys)),
		Date:        pick(row, dateKeys),
		Type:        text(pick(row, typeKeys)),
	}
}

// IsDateKey reports whether header is one of the date aliases.
func IsDateKey(header string) bool {
	for _, k := range dateKeys {
		if k == header {
			return true
		}
	}
	return false
}

func pick(row map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v
	}
	return nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
