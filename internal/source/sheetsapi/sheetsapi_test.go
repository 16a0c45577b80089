package sheetsapi

import (
	"context"
	"strings"
	"testing"
)

func TestMatrixToCSV(t *testing.T) {
	values := [][]interface{}{
		{"FECHA", "USUARIO", "IMPORTE"},
		{"05/01/2026", "Ana", 30000.0},
		{"06/01/2026", "Perez, Juan", true, nil},
	}
	got, err := matrixToCSV(values)
	if err != nil {
		t.Fatalf("matrixToCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: %v", lines)
	}
	if lines[1] != "05/01/2026,Ana,30000" {
		t.Fatalf("numeric cell: %q", lines[1])
	}
	// Commas inside a cell stay quoted so the decoder sees one field.
	if !strings.Contains(lines[2], `"Perez, Juan"`) {
		t.Fatalf("quoting: %q", lines[2])
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(context.Background(), "", "sheet-id", "", ""); err == nil {
		t.Fatal("expected error without API key")
	}
	if _, err := New(context.Background(), "key", "", "", ""); err == nil {
		t.Fatal("expected error without spreadsheet ID")
	}
}
