// Package ingest turns raw CSV text from the spreadsheet exports into typed
// record collections. Decoding is a pure transform: no I/O happens here, a
// malformed line is skipped rather than failing the batch, and decoding the
// same text twice yields equal collections.
package ingest

import (
	"strconv"
	"strings"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// SplitLine splits one CSV line into trimmed fields. A double quote toggles
// in-quote mode; commas inside quotes are not separators. This matches the
// splitter the sheet exports were written against, which is why the stock
// encoding/csv reader is not used here (it rejects stray quotes that these
// exports do produce).
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// Lines splits raw CSV text on CR/LF, drops the header row and blank lines.
func Lines(csvText string) []string {
	normalized := strings.ReplaceAll(csvText, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	all := strings.Split(normalized, "\n")
	if len(all) <= 1 {
		return nil
	}
	var out []string
	for _, line := range all[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Decode maps CSV text onto confirmed, attributable transactions under the
// given schema. Retention rules: status must equal the confirmed token,
// user must be non-empty, and a period must be derivable either from the
// canonical period column or from the date field. Everything else is
// dropped silently; amounts that fail to parse coerce to zero.
func Decode(csvText string, schema Schema) []core.Transaction {
	lines := Lines(csvText)
	txs := make([]core.Transaction, 0, len(lines))
	min := schema.minFields()

	for i, line := range lines {
		fields := SplitLine(line)
		if len(fields) < min {
			continue
		}

		status := fields[schema.Status]
		if schema.FoldStatus {
			status = strings.ToUpper(status)
		}
		if status != schema.ConfirmedToken {
			continue
		}

		user := core.NormalizeIdentity(fields[schema.User])
		if user == "" {
			continue
		}

		period := core.NormalizePeriod(fields[schema.Period])
		if period == "" {
			period = core.ExtractPeriod(fields[schema.Date])
		}
		if period == "" {
			continue
		}

		amount := core.ParseAmount(fields[schema.Amount])
		if amount < 0 {
			amount = 0
		}

		category := fields[schema.Category]
		if category == "" {
			category = core.DefaultCategory
		}

		txs = append(txs, core.Transaction{
			ID:            strconv.Itoa(i),
			Date:          fields[schema.Date],
			User:          user,
			Merchant:      fields[schema.Merchant],
			Amount:        amount,
			PaymentMethod: fields[schema.PaymentMethod],
			Status:        status,
			Category:      category,
			Period:        period,
		})
	}
	return txs
}
