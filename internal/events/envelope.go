package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Group change event types published to the realm channel.
const (
	GroupCreated        = "user_group.created"
	GroupRenamed        = "user_group.renamed"
	GroupRedescribed    = "user_group.redescribed"
	GroupDeleted        = "user_group.deleted"
	GroupMembersChanged = "user_group.members_changed"
)

type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewGroupEnvelope builds an envelope for a user-group event. The payload is
// marshalled as-is.
func NewGroupEnvelope(eventType string, groupID int64, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.New(),
		EventType:     eventType,
		AggregateType: "user_group",
		AggregateID:   fmt.Sprintf("%d", groupID),
		OccurredAt:    time.Now(),
		Payload:       raw,
	}, nil
}

// RealmChannel is the pub/sub channel group events for a realm go out on.
func RealmChannel(realmID int64) string {
	return fmt.Sprintf("realm:%d:events", realmID)
}
