package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/source/export"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/source/sheetsapi"
)

// Kind selects a source implementation.
type Kind string

const (
	ExportKind Kind = "export"
	SheetsKind Kind = "sheets"
	FileKind   Kind = "file"
)

func (k Kind) IsValid() bool {
	switch k {
	case ExportKind, SheetsKind, FileKind:
		return true
	default:
		return false
	}
}

// Config holds what each source kind needs; only the fields for the chosen
// kind are read.
type Config struct {
	Kind Kind

	// export
	TransactionsURL string
	MileageURL      string
	FetchTimeout    time.Duration

	// sheets
	GoogleAPIKey      string
	SpreadsheetID     string
	TransactionsRange string
	MileageRange      string

	// file
	TransactionsFile string
	MileageFile      string
}

// New builds the configured source.
func New(ctx context.Context, cfg Config) (Source, error) {
	switch cfg.Kind {
	case ExportKind:
		if cfg.TransactionsURL == "" {
			return nil, fmt.Errorf("source kind %q needs a transactions URL", cfg.Kind)
		}
		timeout := cfg.FetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return export.New(cfg.TransactionsURL, cfg.MileageURL, timeout), nil
	case SheetsKind:
		return sheetsapi.New(ctx, cfg.GoogleAPIKey, cfg.SpreadsheetID, cfg.TransactionsRange, cfg.MileageRange)
	case FileKind:
		if cfg.TransactionsFile == "" {
			return nil, fmt.Errorf("source kind %q needs a transactions file", cfg.Kind)
		}
		return FileSource{TransactionsPath: cfg.TransactionsFile, MileagePath: cfg.MileageFile}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
