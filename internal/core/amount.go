// Package core holds the domain types and the parsing primitives shared by
// the decoders and the aggregation engine.
//
// This file disambiguates locale-dependent numeric strings. The spreadsheet
// exports mix Argentinian formatting (1.234,56) with US formatting
// (1,234.56), and the extended Mendel export writes whole thousands with a
// period ("37.465" meaning 37465 pesos). The rules below resolve the
// ambiguity and must be applied in order.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a raw amount field into a decimal value. It is a
// total function: anything unparseable yields 0, never an error.
//
// Rules, in order:
//  1. strip quotes, currency symbol and whitespace
//  2. both comma and period present: the last separator is the decimal one
//  3. comma only: decimal when followed by exactly 2 digits, thousands otherwise
//  4. period only: thousands when followed by exactly 3 digits, decimal otherwise
func ParseAmount(raw string) float64 {
	clean := strings.ReplaceAll(raw, `"`, "")
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0
	}

	hasComma := strings.Contains(clean, ",")
	hasPeriod := strings.Contains(clean, ".")

	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// 1.234,56 -> 1234.56
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			// 1,234.56 -> 1234.56
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasComma:
		parts := strings.Split(clean, ",")
		if len(parts) == 2 && len(parts[1]) == 2 {
			// 123,45 -> 123.45
			clean = parts[0] + "." + parts[1]
		} else {
			// 1,234 -> 1234
			clean = strings.Join(parts, "")
		}
	case hasPeriod:
		// Mendel quirk: a period followed by exactly 3 digits is a
		// thousands separator ("37.465" is 37465 pesos, not 37.465).
		parts := strings.Split(clean, ".")
		if len(parts) > 1 && len(parts[len(parts)-1]) == 3 {
			clean = strings.Join(parts, "")
		}
	}

	n, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
