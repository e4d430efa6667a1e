package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record kinds carried by change events.
const (
	KindShoot = "shoot"
	KindLead  = "lead"
)

// Change operations.
const (
	OpCreated  = "created"
	OpUpdated  = "updated"
	OpDeleted  = "deleted"
	OpReplaced = "replaced"
)

// RecordChanged announces a mutation of one record, or of a whole
// collection when Op is OpReplaced and ID is empty. Consumers re-read the
// store rather than trusting a payload.
type RecordChanged struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChanged(kind, id, op string) *RecordChanged {
	return &RecordChanged{
		Kind:      kind,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *RecordChanged) Validate() error {
	switch m.Kind {
	case KindShoot, KindLead:
	default:
		return fmt.Errorf("unknown record kind %q", m.Kind)
	}
	switch m.Op {
	case OpCreated, OpUpdated, OpDeleted:
		if m.ID == "" {
			return fmt.Errorf("%s event without id", m.Op)
		}
	case OpReplaced:
	default:
		return fmt.Errorf("unknown operation %q", m.Op)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *RecordChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangedFromJSON decodes and validates a message.
func RecordChangedFromJSON(data []byte) (*RecordChanged, error) {
	var msg RecordChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
