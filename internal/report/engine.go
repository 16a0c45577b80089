// Package report derives the dashboard's view-models from one dataset
// snapshot. Every method is a pure function of (snapshot, filter): calling
// it twice is safe and returns equal results, and every aggregate tolerates
// an empty dataset by degrading to an empty or zero-valued result.
package report

import (
	"sort"
	"strings"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/dataset"
)

type (
	// CategoryShare is one slice of the category composition.
	CategoryShare struct {
		Category string  `json:"categoria"`
		Total    float64 `json:"total"`
		Percent  float64 `json:"porcentaje"`
	}

	// UserTotal is one ranking row.
	UserTotal struct {
		User  string  `json:"usuario"`
		Total float64 `json:"total"`
	}

	// PeriodBar is one column of the evolution chart.
	PeriodBar struct {
		Period     string             `json:"periodo"`
		Total      float64            `json:"total"`
		Categories map[string]float64 `json:"categorias"`
	}

	// Summary covers the indicator cards.
	Summary struct {
		Total        float64 `json:"total"`
		Transactions int     `json:"transacciones"`
		Users        int     `json:"usuarios"`
	}
)

// Engine answers aggregate queries against a fixed snapshot.
type Engine struct {
	snap dataset.Snapshot
}

func New(snap dataset.Snapshot) *Engine {
	return &Engine{snap: snap}
}

// Version exposes the snapshot generation for cache keying.
func (e *Engine) Version() int64 {
	return e.snap.Version
}

// AvailablePeriods returns the distinct period keys, newest first.
// Lexicographic order is chronological because keys are fixed-width YYYYMM.
func (e *Engine) AvailablePeriods() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tx := range e.snap.Transactions {
		if _, ok := seen[tx.Period]; ok {
			continue
		}
		seen[tx.Period] = struct{}{}
		out = append(out, tx.Period)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// DefaultPeriod is the newest available period, or "" on an empty dataset.
func (e *Engine) DefaultPeriod() string {
	if ps := e.AvailablePeriods(); len(ps) > 0 {
		return ps[0]
	}
	return ""
}

// PeriodWindow returns the count periods ending at selected, inclusive,
// oldest first. Unknown selected yields an empty window.
func (e *Engine) PeriodWindow(selected string, count int) []string {
	desc := e.AvailablePeriods()
	idx := -1
	for i, p := range desc {
		if p == selected {
			idx = i
			break
		}
	}
	if idx == -1 || count <= 0 {
		return nil
	}
	end := idx + count
	if end > len(desc) {
		end = len(desc)
	}
	window := desc[idx:end]
	out := make([]string, len(window))
	for i, p := range window {
		out[len(window)-1-i] = p
	}
	return out
}

// filtered applies every filter dimension except the chart window.
func (e *Engine) filtered(f Filter) []core.Transaction {
	var out []core.Transaction
	for _, tx := range e.snap.Transactions {
		if !matches(tx, f) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matches(tx core.Transaction, f Filter) bool {
	if f.Period != "" && tx.Period != f.Period {
		return false
	}
	if !matchesUser(tx, f) {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.PaymentMethod != "" && tx.PaymentMethod != f.PaymentMethod {
		return false
	}
	return true
}

func matchesUser(tx core.Transaction, f Filter) bool {
	if f.User != "" {
		return string(tx.User) == f.User
	}
	if f.Search != "" {
		return strings.Contains(strings.ToLower(string(tx.User)), strings.ToLower(f.Search))
	}
	return true
}

// Summary totals the filtered subset for the indicator cards.
func (e *Engine) Summary(f Filter) Summary {
	var s Summary
	users := map[core.Identity]struct{}{}
	for _, tx := range e.filtered(f) {
		s.Total += tx.Amount
		s.Transactions++
		users[tx.User] = struct{}{}
	}
	s.Users = len(users)
	return s
}

// CategoryComposition groups the filtered subset by category, largest share
// first. Percentages sum to 100 for a non-empty subset; a zero-total subset
// reports zero percentages rather than dividing by zero.
func (e *Engine) CategoryComposition(f Filter) []CategoryShare {
	sums := map[string]float64{}
	var total float64
	for _, tx := range e.filtered(f) {
		sums[tx.Category] += tx.Amount
		total += tx.Amount
	}
	out := make([]CategoryShare, 0, len(sums))
	for cat, sum := range sums {
		share := CategoryShare{Category: cat, Total: sum}
		if total > 0 {
			share.Percent = sum / total * 100
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// UserRanking groups the filtered subset by user, biggest spender first.
func (e *Engine) UserRanking(f Filter) []UserTotal {
	sums := map[core.Identity]float64{}
	for _, tx := range e.filtered(f) {
		sums[tx.User] += tx.Amount
	}
	out := make([]UserTotal, 0, len(sums))
	for user, sum := range sums {
		out = append(out, UserTotal{User: string(user), Total: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].User < out[j].User
	})
	return out
}

// ChartSeries builds one bar per window period. The per-category breakdown
// ignores the category filter so the stacked segments stay comparable; the
// bar total honors it.
func (e *Engine) ChartSeries(f Filter) []PeriodBar {
	f = f.Normalize()
	window := e.PeriodWindow(f.Period, f.Window)
	out := make([]PeriodBar, 0, len(window))
	for _, period := range window {
		bar := PeriodBar{Period: period, Categories: map[string]float64{}}
		for _, tx := range e.snap.Transactions {
			if tx.Period != period || !matchesUser(tx, f) {
				continue
			}
			bar.Categories[tx.Category] += tx.Amount
			if f.Category != "" && tx.Category != f.Category {
				continue
			}
			bar.Total += tx.Amount
		}
		out = append(out, bar)
	}
	return out
}

// Transactions returns the audit listing for the filtered subset, largest
// amount first.
func (e *Engine) Transactions(f Filter) []core.Transaction {
	out := e.filtered(f)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// Users lists every distinct identity, sorted.
func (e *Engine) Users() []string {
	return e.distinct(func(tx core.Transaction) string { return string(tx.User) })
}

// PaymentMethods lists the distinct non-empty payment tags, sorted.
func (e *Engine) PaymentMethods() []string {
	return e.distinct(func(tx core.Transaction) string { return tx.PaymentMethod })
}

// Categories lists the distinct categories, sorted.
func (e *Engine) Categories() []string {
	return e.distinct(func(tx core.Transaction) string { return tx.Category })
}

func (e *Engine) distinct(key func(core.Transaction) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tx := range e.snap.Transactions {
		k := key(tx)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
