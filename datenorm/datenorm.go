// Package datenorm converts the date representations found in case uploads
// into the canonical YYYY-MM-DD form used for storage and range queries.
package datenorm

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"case-analysis/apperrors"
)

// Layout is the canonical calendar-day layout. It sorts lexicographically in date order.
const Layout = "2006-01-02"

// MinSerial is the first day a spreadsheet serial names; 0 is an empty cell.
const MinSerial = 1

// MaxSerial is the spreadsheet serial for 9999-12-31.
const MaxSerial = 2958465

const msPerDay = 86_400_000

var (
	// Serial 1 is 1900-01-01 under the spreadsheet convention, so day zero is 1899-12-30.
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	japanesePattern = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)
)

// Normalize returns the canonical date for v, or a *apperrors.NormalizationError.
// Numbers are spreadsheet serials; strings must be YYYY-MM-DD or <y>年<m>月<d>日.
// A numeric string is not treated as a serial.
func Normalize(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return normalizeString(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return "", &apperrors.NormalizationError{Input: v}
		}
		return normalizeSerial(f, v)
	case float64:
		return normalizeSerial(x, v)
	case float32:
		return normalizeSerial(float64(x), v)
	case int:
		return normalizeSerial(float64(x), v)
	case int64:
		return normalizeSerial(float64(x), v)
	case int32:
		return normalizeSerial(float64(x), v)
	default:
		return "", &apperrors.NormalizationError{Input: v}
	}
}

// FromSerial converts a spreadsheet day serial to a canonical date. The
// fractional part is a time of day and is discarded after the addition.
func FromSerial(serial float64) string {
	ms := serialEpoch.UnixMilli() + int64(serial*msPerDay)
	return time.UnixMilli(ms).UTC().Format(Layout)
}

// Valid reports whether s already has the canonical shape.
func Valid(s string) bool {
	return isoPattern.MatchString(s)
}

func normalizeString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &apperrors.NormalizationError{Input: s}
	}
	if isoPattern.MatchString(s) {
		return s, nil
	}
	if m := japanesePattern.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3])), nil
	}
	return "", &apperrors.NormalizationError{Input: s}
}

func normalizeSerial(f float64, raw any) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < MinSerial || f > MaxSerial {
		return "", &apperrors.NormalizationError{Input: raw}
	}
	return FromSerial(f), nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
