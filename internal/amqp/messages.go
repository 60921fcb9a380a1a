package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotCommitMessage carries one committed ledger state to the worker.
// The payload is the full serialized blob, so the worker needs no other source.
type SnapshotCommitMessage struct {
	Key       string    `json:"key"`
	Version   uint64    `json:"version"`
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotCommitMessage creates a message stamped with the current time.
func NewSnapshotCommitMessage(key string, version uint64, payload string) *SnapshotCommitMessage {
	return &SnapshotCommitMessage{
		Key:       key,
		Version:   version,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotCommitMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotCommitMessageFromJSON parses a message and requires a key.
func SnapshotCommitMessageFromJSON(data []byte) (*SnapshotCommitMessage, error) {
	var msg SnapshotCommitMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" {
		return nil, fmt.Errorf("snapshot message without key")
	}
	return &msg, nil
}
