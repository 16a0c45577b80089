package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshedMessage announces that a new dataset snapshot was fetched.
// Consumers reload from the snapshot store rather than carrying the CSV
// bodies over the wire.
type DatasetRefreshedMessage struct {
	Version   int64     `json:"version"`
	FetchedAt time.Time `json:"fetchedAt"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetRefreshedMessage creates a refresh announcement for a snapshot version
func NewDatasetRefreshedMessage(version int64, fetchedAt time.Time) *DatasetRefreshedMessage {
	return &DatasetRefreshedMessage{
		Version:   version,
		FetchedAt: fetchedAt,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func DatasetRefreshedMessageFromJSON(data []byte) (*DatasetRefreshedMessage, error) {
	var msg DatasetRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
