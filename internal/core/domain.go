package core

import (
	"errors"
	"strings"
)

const (
	// StatusConfirmed is the only status counted by the dashboard.
	StatusConfirmed = "CONFIRMADA"

	// DefaultCategory is assigned to rows missing a category tag.
	DefaultCategory = "Otros"

	// FuelCategory is the category joined against mileage declarations.
	FuelCategory = "Combustible"
)

type (
	// Identity is the normalized join key shared by transactions and
	// mileage declarations. The two spreadsheets are only loosely
	// consistent (one may carry emails, the other display names), so the
	// join is exact string equality on the normalized value; mismatched
	// capitalization or format silently produces unmatched rows.
	Identity string

	// Transaction is one confirmed expense line from the sheet export.
	// Amounts are ARS pesos; the source treats them as whole-peso values
	// but fractional amounts survive parsing.
	Transaction struct {
		ID            string   `json:"id"`
		Date          string   `json:"fecha"`
		User          Identity `json:"usuario"`
		Merchant      string   `json:"comercio"`
		Amount        float64  `json:"importe"`
		PaymentMethod string   `json:"metodo"`
		Status        string   `json:"estado"`
		Category      string   `json:"categoria"`
		Period        string   `json:"periodo"`
	}

	// MileageRecord is one user/vehicle/month kilometer declaration.
	MileageRecord struct {
		Identity    Identity `json:"mail"`
		Period      string   `json:"periodo"`
		Plate       string   `json:"patente"`
		VehicleType string   `json:"tipo"`
		Kilometers  float64  `json:"kms"`
	}
)

var (
	ErrMissingUser   = errors.New("missing user")
	ErrMissingPeriod = errors.New("missing period")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidPeriod = errors.New("invalid period")
)

// NormalizeIdentity trims surrounding whitespace and quote characters.
// No case folding or fuzzy matching is applied; see Identity.
func NormalizeIdentity(raw string) Identity {
	return Identity(strings.TrimSpace(strings.ReplaceAll(raw, `"`, "")))
}

// Validate checks the invariants every retained transaction must hold:
// non-empty user, well-formed period, non-negative amount.
func (t Transaction) Validate() error {
	if t.User == "" {
		return ErrMissingUser
	}
	if t.Period == "" {
		return ErrMissingPeriod
	}
	if !ValidPeriod(t.Period) {
		return ErrInvalidPeriod
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Confirmed reports whether the transaction counts toward aggregates.
func (t Transaction) Confirmed() bool {
	return t.Status == StatusConfirmed
}

func (m MileageRecord) Validate() error {
	if m.Identity == "" {
		return ErrMissingUser
	}
	if !ValidPeriod(m.Period) {
		return ErrInvalidPeriod
	}
	if m.Kilometers < 0 {
		return ErrInvalidAmount
	}
	return nil
}
