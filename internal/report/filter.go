package report

// Mode selects the comparison window for deviation alerts.
type Mode string

const (
	ModeMonth Mode = "mes"
	ModeYear  Mode = "anio"
)

// Window sizes the presentation layer may request for chart series.
var WindowSizes = []int{3, 6, 9, 12}

const (
	DefaultWindow   = 6
	DefaultLookback = 3
)

// Filter carries the presentation layer's current selections into every
// engine call. It is an explicit immutable parameter object; the engine
// keeps no ambient filter state.
type Filter struct {
	// Period is the selected YYYYMM key. Empty means "all periods" for
	// listings and disables the period-scoped aggregates.
	Period string

	// User is an exact selected identity; Search is a free-text,
	// case-insensitive containment match. User wins when both are set.
	User   string
	Search string

	Category      string
	PaymentMethod string

	// Mode and Lookback drive deviation alerts; Window drives chart series.
	Mode     Mode
	Lookback int
	Window   int
}

// Normalize fills the defaults the presentation layer may omit.
func (f Filter) Normalize() Filter {
	if f.Mode != ModeYear {
		f.Mode = ModeMonth
	}
	if f.Lookback <= 0 {
		f.Lookback = DefaultLookback
	}
	valid := false
	for _, w := range WindowSizes {
		if f.Window == w {
			valid = true
			break
		}
	}
	if !valid {
		f.Window = DefaultWindow
	}
	return f
}
