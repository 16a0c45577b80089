package ingest

import (
	"fmt"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// Schema maps fixed column positions of a transactions export onto the
// Transaction attributes. The spreadsheet exists in two incompatible
// layouts, so the mapping is configuration, never inlined logic.
type Schema struct {
	Name string

	Date          int
	User          int
	Merchant      int
	Amount        int
	PaymentMethod int
	Status        int
	Category      int
	Period        int

	// ConfirmedToken is the status value that marks a counted row.
	ConfirmedToken string

	// FoldStatus uppercases the status field before comparing. The Mendel
	// export is inconsistent about casing; the basic one is not.
	FoldStatus bool
}

// Basic is the original ~11 column export.
var Basic = Schema{
	Name:           "basic",
	Date:           1,
	User:           2,
	Merchant:       3,
	Amount:         4,
	Status:         5,
	PaymentMethod:  6,
	Category:       9,
	Period:         10,
	ConfirmedToken: core.StatusConfirmed,
}

// Mendel is the extended 55+ column export from the Mendel platform.
var Mendel = Schema{
	Name:           "mendel",
	Date:           1,
	User:           3,
	Merchant:       4,
	Amount:         5,
	PaymentMethod:  12,
	Status:         15,
	Category:       53,
	Period:         54,
	ConfirmedToken: core.StatusConfirmed,
	FoldStatus:     true,
}

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (Schema, error) {
	switch name {
	case "", "mendel":
		return Mendel, nil
	case "basic":
		return Basic, nil
	default:
		return Schema{}, fmt.Errorf("unknown schema %q (want basic or mendel)", name)
	}
}

// minFields is the column-count sanity bound: rows shorter than the highest
// mapped position are skipped.
func (s Schema) minFields() int {
	max := s.Date
	for _, i := range []int{s.User, s.Merchant, s.Amount, s.PaymentMethod, s.Status, s.Category, s.Period} {
		if i > max {
			max = i
		}
	}
	return max + 1
}

// WithUserColumn returns a copy of the schema reading the join identity from
// a different column. Whether "user" is an email or a display name varies
// across sheet revisions, so the join key stays configurable.
func (s Schema) WithUserColumn(col int) Schema {
	if col >= 0 {
		s.User = col
	}
	return s
}
