package report

import (
	"sort"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// DeviationAlert flags a user spending above their own average. Only
// positive deviations surface; spending less than average never alerts.
type DeviationAlert struct {
	User      string  `json:"usuario"`
	Current   float64 `json:"gastoActual"`
	Average   float64 `json:"promedio"`
	Deviation float64 `json:"desvioMonto"`
	Percent   float64 `json:"desvioPct"`
	Annual    bool    `json:"esAnual"`
}

// DeviationAlerts compares each user's spend in the selected period against
// their own history.
//
// Month mode: the baseline is the user's average over the Lookback available
// periods immediately preceding the selected one. Periods where the user
// spent nothing are excluded from the denominator, not averaged in as zero.
//
// Year mode: the "period" becomes every period sharing the selection's year
// prefix; the baseline is the user's per-active-month average within that
// year, so the result doubles as an annual ranking.
func (e *Engine) DeviationAlerts(f Filter) []DeviationAlert {
	f = f.Normalize()
	if f.Period == "" || len(e.snap.Transactions) == 0 {
		return nil
	}
	if f.Mode == ModeYear {
		return e.yearlyDeviations(f)
	}
	return e.monthlyDeviations(f)
}

func (e *Engine) monthlyDeviations(f Filter) []DeviationAlert {
	current := spendByUser(e.snap.Transactions, func(tx core.Transaction) bool {
		return tx.Period == f.Period
	})
	if len(current) == 0 {
		return nil
	}

	// The lookback window counts observed periods, not calendar months:
	// a month with no data at all does not consume lookback budget.
	desc := e.AvailablePeriods()
	idx := -1
	for i, p := range desc {
		if p == f.Period {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	end := idx + 1 + f.Lookback
	if end > len(desc) {
		end = len(desc)
	}
	history := desc[idx+1 : end]

	var alerts []DeviationAlert
	for user, spent := range current {
		var sum float64
		var active int
		for _, p := range history {
			if v := userSpendInPeriod(e.snap.Transactions, user, p); v > 0 {
				sum += v
				active++
			}
		}
		var avg float64
		if active > 0 {
			avg = sum / float64(active)
		}
		alerts = appendAlert(alerts, user, spent, avg, false)
	}
	sortAlerts(alerts)
	return alerts
}

func (e *Engine) yearlyDeviations(f Filter) []DeviationAlert {
	year := core.PeriodYear(f.Period)
	if year == "" {
		return nil
	}
	inYear := func(tx core.Transaction) bool {
		return core.PeriodYear(tx.Period) == year
	}
	totals := spendByUser(e.snap.Transactions, inYear)

	// Active months per user within the year.
	months := map[core.Identity]map[string]struct{}{}
	for _, tx := range e.snap.Transactions {
		if !inYear(tx) || tx.Amount <= 0 {
			continue
		}
		if months[tx.User] == nil {
			months[tx.User] = map[string]struct{}{}
		}
		months[tx.User][tx.Period] = struct{}{}
	}

	var alerts []DeviationAlert
	for user, total := range totals {
		var avg float64
		if n := len(months[user]); n > 0 {
			avg = total / float64(n)
		}
		alerts = appendAlert(alerts, user, total, avg, true)
	}
	sortAlerts(alerts)
	return alerts
}

func appendAlert(alerts []DeviationAlert, user core.Identity, current, avg float64, annual bool) []DeviationAlert {
	deviation := current - avg
	if deviation <= 0 {
		return alerts
	}
	a := DeviationAlert{
		User:      string(user),
		Current:   current,
		Average:   avg,
		Deviation: deviation,
		Annual:    annual,
	}
	if avg > 0 {
		a.Percent = deviation / avg * 100
	}
	return append(alerts, a)
}

func sortAlerts(alerts []DeviationAlert) {
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Deviation != alerts[j].Deviation {
			return alerts[i].Deviation > alerts[j].Deviation
		}
		return alerts[i].User < alerts[j].User
	})
}

func spendByUser(txs []core.Transaction, keep func(core.Transaction) bool) map[core.Identity]float64 {
	out := map[core.Identity]float64{}
	for _, tx := range txs {
		if keep(tx) {
			out[tx.User] += tx.Amount
		}
	}
	return out
}

func userSpendInPeriod(txs []core.Transaction, user core.Identity, period string) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.User == user && tx.Period == period {
			sum += tx.Amount
		}
	}
	return sum
}
