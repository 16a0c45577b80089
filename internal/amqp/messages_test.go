package amqp

import (
	"testing"
	"time"
)

func TestDatasetRefreshedMessageRoundTrip(t *testing.T) {
	fetchedAt := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	msg := NewDatasetRefreshedMessage(7, fetchedAt)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	got, err := DatasetRefreshedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	if got.Version != 7 {
		t.Errorf("Version = %d, want 7", got.Version)
	}
	if !got.FetchedAt.Equal(fetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetchedAt)
	}
	if got.Timestamp.IsZero() {
		t.Errorf("Timestamp is zero")
	}
}

func TestDatasetRefreshedMessageFromJSONInvalid(t *testing.T) {
	if _, err := DatasetRefreshedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("FromJSON() expected error for invalid payload")
	}
}
