package amqp

import (
	"encoding/json"
	"time"
)

// Refresh reasons carried on the wire.
const (
	ReasonMutation = "mutation"
	ReasonPeriodic = "periodic"
	ReasonImport   = "import"
)

// RefreshMessage asks the worker to recompute scores for one scope.
// An empty InstitutionID means the all-accounts scope. The worker
// fetches the data from the database, so the message stays small.
type RefreshMessage struct {
	InstitutionID string    `json:"institution_id"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewRefreshMessage creates a refresh message for the given scope
func NewRefreshMessage(institutionID, reason string) *RefreshMessage {
	return &RefreshMessage{
		InstitutionID: institutionID,
		Reason:        reason,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshMessageFromJSON creates a message from JSON bytes
func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
