// Package sheetsapi reads the spreadsheet through the Google Sheets API
// instead of the anonymous CSV export. Access uses an API key, which is how
// the original download tooling authenticated. The value matrix is
// serialized back to CSV so the shared decoder applies unchanged.
package sheetsapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"encoding/csv"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsRange string
	mileageRange      string
}

// New builds a Sheets API source. mileageRange may be empty.
func New(ctx context.Context, apiKey, spreadsheetID, transactionsRange, mileageRange string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing Google API key")
	}
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if transactionsRange == "" {
		transactionsRange = "A:BZ"
	}

	svc, err := gsheet.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsRange: transactionsRange,
		mileageRange:      mileageRange,
	}, nil
}

func (c *Client) FetchTransactions(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.transactionsRange)
}

func (c *Client) FetchMileage(ctx context.Context) (string, error) {
	if c.mileageRange == "" {
		return "", nil
	}
	return c.fetch(ctx, c.mileageRange)
}

func (c *Client) fetch(ctx context.Context, readRange string) (string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read range %q: %w", readRange, err)
	}
	return matrixToCSV(resp.Values)
}

func matrixToCSV(values [][]interface{}) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range values {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("serialize row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
