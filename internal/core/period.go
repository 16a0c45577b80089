package core

import (
	"regexp"
	"strings"
)

// Period keys are fixed-width YYYYMM strings, so lexicographic order is
// chronological order.

var (
	reSlashDMY = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	reISODate  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	reDashDMY  = regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`)
	rePeriod   = regexp.MustCompile(`^\d{6}$`)
)

// ExtractPeriod derives a YYYYMM key from a heterogeneous date string.
// Patterns are tried in order, first match wins; no match yields "" and the
// caller decides whether the record is droppable.
func ExtractPeriod(raw string) string {
	date := strings.ReplaceAll(strings.TrimSpace(raw), `"`, "")
	if date == "" {
		return ""
	}
	if m := reSlashDMY.FindStringSubmatch(date); m != nil {
		return m[3] + pad2(m[2])
	}
	if m := reISODate.FindStringSubmatch(date); m != nil {
		return m[1] + m[2]
	}
	if m := reDashDMY.FindStringSubmatch(date); m != nil {
		return m[3] + pad2(m[2])
	}
	return ""
}

// NormalizePeriod cleans a pre-normalized period column value: quotes,
// dashes and whitespace are dropped ("2026-01" -> "202601"). Anything that
// does not end up as six digits is unassignable and yields "".
func NormalizePeriod(raw string) string {
	p := strings.ReplaceAll(raw, `"`, "")
	p = strings.ReplaceAll(p, "-", "")
	p = strings.TrimSpace(p)
	if !ValidPeriod(p) {
		return ""
	}
	return p
}

// ValidPeriod reports whether p is a well-formed six-digit period key.
func ValidPeriod(p string) bool {
	return rePeriod.MatchString(p)
}

// PeriodYear returns the four-digit year prefix of a period key.
func PeriodYear(p string) string {
	if len(p) < 4 {
		return ""
	}
	return p[:4]
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
