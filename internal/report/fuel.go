package report

import (
	"sort"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// FuelEfficiencyEntry is one row of the fuel cost-per-kilometer join.
// Either side may be missing: spend without declared kilometers reports a
// zero CostPerKm, kilometers without spend report a zero Gasto.
type FuelEfficiencyEntry struct {
	User        string  `json:"usuario"`
	Spend       float64 `json:"gasto"`
	Kilometers  float64 `json:"kms"`
	CostPerKm   float64 `json:"eficiencia"`
	Plate       string  `json:"patente"`
	VehicleType string  `json:"tipo"`
}

// FuelEfficiency joins the selected period's fuel spend against the mileage
// declarations by exact identity equality (a best-effort join; the two
// sheets are not guaranteed to agree on identity format). The result is the
// union of both key sets, biggest spender first.
func (e *Engine) FuelEfficiency(f Filter) []FuelEfficiencyEntry {
	if f.Period == "" {
		return nil
	}

	spend := spendByUser(e.snap.Transactions, func(tx core.Transaction) bool {
		return tx.Period == f.Period && tx.Category == core.FuelCategory
	})

	kms := map[core.Identity]float64{}
	type vehicle struct{ plate, kind string }
	vehicles := map[core.Identity]vehicle{}
	for _, m := range e.snap.Mileage {
		if m.Period != f.Period {
			continue
		}
		kms[m.Identity] += m.Kilometers
		if _, ok := vehicles[m.Identity]; !ok {
			vehicles[m.Identity] = vehicle{plate: m.Plate, kind: m.VehicleType}
		}
	}

	users := map[core.Identity]struct{}{}
	for u := range spend {
		users[u] = struct{}{}
	}
	for u := range kms {
		users[u] = struct{}{}
	}

	out := make([]FuelEfficiencyEntry, 0, len(users))
	for u := range users {
		entry := FuelEfficiencyEntry{
			User:        string(u),
			Spend:       spend[u],
			Kilometers:  kms[u],
			Plate:       vehicles[u].plate,
			VehicleType: vehicles[u].kind,
		}
		if entry.Spend == 0 && entry.Kilometers == 0 {
			continue
		}
		if entry.Kilometers > 0 {
			entry.CostPerKm = entry.Spend / entry.Kilometers
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].User < out[j].User
	})
	return out
}
