package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads previously downloaded exports from disk. Used for local
// development and as the backing for deployments where fetch-sheet runs on
// a schedule and drops files next to the server.
type FileSource struct {
	TransactionsPath string
	MileagePath      string
}

func (f FileSource) FetchTransactions(_ context.Context) (string, error) {
	body, err := os.ReadFile(f.TransactionsPath)
	if err != nil {
		return "", fmt.Errorf("read transactions file: %w", err)
	}
	return string(body), nil
}

func (f FileSource) FetchMileage(_ context.Context) (string, error) {
	if f.MileagePath == "" {
		return "", nil
	}
	body, err := os.ReadFile(f.MileagePath)
	if err != nil {
		return "", fmt.Errorf("read mileage file: %w", err)
	}
	return string(body), nil
}
