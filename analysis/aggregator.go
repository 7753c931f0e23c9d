// Package analysis computes per-field keyword occurrence shares over a set of cases.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"case-analysis/apperrors"
	"case-analysis/matcher"
	"case-analysis/models"
)

var hundred = decimal.NewFromInt(100)

// Aggregator counts word matches against the category text of each case.
type Aggregator struct {
	matcher matcher.Matcher
	workers int
}

func NewAggregator(m matcher.Matcher, workers int) *Aggregator {
	if workers <= 0 {
		workers = 1
	}
	return &Aggregator{matcher: m, workers: workers}
}

// Aggregate returns one entry per field, in the order of fields. Each entry's
// total is the sum over its words and all cases of the non-overlapping match
// count in Case.Type. Percentages share one grand total and are not adjusted
// to sum to exactly 100.
//
// An empty case set is reported as apperrors.ErrNoData; callers are expected
// to check for it before aggregating.
func (a *Aggregator) Aggregate(ctx context.Context, cases []models.Case, fields []models.Field, words []models.Word) ([]models.FieldAnalysis, error) {
	if len(cases) == 0 {
		return nil, apperrors.ErrNoData
	}

	byField := groupWords(words)
	counts := make([]int, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, f := range fields {
		i, f := i, f
		g.Go(func() error {
			n, err := a.countField(gctx, byField[f.ID], cases)
			if err != nil {
				return fmt.Errorf("field %d (%s): %w", f.ID, f.Name, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grand := 0
	for _, n := range counts {
		grand += n
	}

	out := make([]models.FieldAnalysis, len(fields))
	for i, f := range fields {
		terms := make([]string, 0, len(byField[f.ID]))
		for _, w := range byField[f.ID] {
			terms = append(terms, w.Term)
		}
		out[i] = models.FieldAnalysis{
			FieldID:          f.ID,
			FieldName:        f.Name,
			TotalOccurrences: counts[i],
			Percentage:       Percentage(counts[i], grand),
			Words:            terms,
		}
	}
	return out, nil
}

func (a *Aggregator) countField(ctx context.Context, words []models.Word, cases []models.Case) (int, error) {
	total := 0
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p, err := a.matcher.Compile(w.Term)
		if err != nil {
			return 0, err
		}
		for _, c := range cases {
			n, err := p.Count(c.Type)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}

// Percentage is count/grand*100 rounded half away from zero to two places,
// computed exactly. A zero grand total yields 0.00.
func Percentage(count, grand int) models.Percent {
	if grand <= 0 {
		return models.NewPercent(decimal.Zero)
	}
	q := decimal.NewFromInt(int64(count)).Mul(hundred).DivRound(decimal.NewFromInt(int64(grand)), 2)
	return models.NewPercent(q)
}

func groupWords(words []models.Word) map[uint][]models.Word {
	byField := make(map[uint][]models.Word)
	for _, w := range words {
		byField[w.FieldID] = append(byField[w.FieldID], w)
	}
	for id := range byField {
		ws := byField[id]
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Position < ws[j].Position })
	}
	return byField
}
