package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SnapshotWordCount is the number of word slots every rehydrated result row carries.
const SnapshotWordCount = 3

// AnalysisResult is a named, immutable snapshot of one aggregation run.
type AnalysisResult struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"not null"`
	StartDate string        `json:"start_date" gorm:"type:text;not null"`
	EndDate   string        `json:"end_date" gorm:"type:text;not null"`
	Fields    []ResultField `json:"-" gorm:"foreignKey:ResultID"`
}

func (AnalysisResult) TableName() string { return "results" }

// ResultField is the persisted per-field row of a snapshot. FieldID is kept as
// a plain value: the snapshot outlives changes to the field registry, and a
// snapshot may repeat a field id.
type ResultField struct {
	ID              uint            `gorm:"primaryKey"`
	ResultID        uint            `gorm:"not null;index:idx_result_fields_result_field"`
	FieldID         uint            `gorm:"not null;index:idx_result_fields_result_field"`
	FieldName       string          `gorm:"not null;default:''"`
	OccurrenceCount int             `gorm:"column:number;not null"`
	Percentage      decimal.Decimal `gorm:"type:text;not null"`
	Words           []string        `gorm:"type:text;serializer:json"`
}

// ResultSummary is the list view of a snapshot, without child rows.
type ResultSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ResultDetail is a rehydrated snapshot, shaped like a fresh analysis.
type ResultDetail struct {
	ResultSummary
	Result []FieldAnalysis `json:"result"`
}

// FieldAnalysis is the per-field output of the occurrence aggregator. The same
// shape is persisted by the result archive and returned when it is read back.
type FieldAnalysis struct {
	FieldID          uint     `json:"field_id"`
	FieldName        string   `json:"field_name"`
	TotalOccurrences int      `json:"total_occurrences"`
	Percentage       Percent  `json:"percentage"`
	Words            []string `json:"words"`
}

// Percent is a percentage rendered with exactly two decimals ("33.33").
// It decodes from either a JSON string or a JSON number.
type Percent struct {
	decimal.Decimal
}

func NewPercent(d decimal.Decimal) Percent {
	return Percent{Decimal: d.Round(2)}
}

func (p Percent) String() string {
	return p.StringFixed(2)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringFixed(2) + `"`), nil
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	return p.Decimal.UnmarshalJSON(b)
}

// PadWords returns exactly n entries: missing slots are empty strings and
// extra entries are dropped.
func PadWords(words []string, n int) []string {
	out := make([]string, n)
	copy(out, words)
	return out
}
