package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"masjid/internal/core"
)

// RoutingKeyTransactionRecorded names the event emitted for every audit row.
const RoutingKeyTransactionRecorded = "transaction.recorded"

// TransactionRecordedMessage announces a new audit row. It carries the full
// record so consumers can act without a lookup, but the worker still reloads
// the row by ID to honour the mirrored flag.
type TransactionRecordedMessage struct {
	ID        int64     `json:"id"`
	DonorID   int64     `json:"donatur_id"`
	Tahun     int       `json:"tahun"`
	Bulan     int       `json:"bulan"`
	Jumlah    int64     `json:"jumlah"`
	Mode      string    `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionRecordedMessage builds the event for a stored record
func NewTransactionRecordedMessage(rec core.TransactionRecord) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        rec.ID,
		DonorID:   rec.DonorID,
		Tahun:     rec.Tahun,
		Bulan:     rec.Bulan,
		Jumlah:    rec.Jumlah,
		Mode:      rec.Mode.String(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Record returns the audit record the message describes
func (m *TransactionRecordedMessage) Record() core.TransactionRecord {
	return core.TransactionRecord{
		ID:      m.ID,
		DonorID: m.DonorID,
		Tahun:   m.Tahun,
		Bulan:   m.Bulan,
		Jumlah:  m.Jumlah,
		Mode:    core.WriteMode(m.Mode),
	}
}

// TransactionRecordedMessageFromJSON decodes a message. Messages without a
// record ID are rejected.
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 {
		return nil, errors.New("message has no transaction id")
	}
	return &msg, nil
}
