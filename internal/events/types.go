// Package events provides event publishing for outlet lifecycle events
// over Redis Streams.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for outlet events.
const StreamName = "outlet-events"

// EventType represents the type of outlet event.
type EventType string

const (
	// OutletUpserted indicates an outlet was created or merged by URL.
	OutletUpserted EventType = "OUTLET_UPSERTED"
	// OutletStatusChanged indicates a ledger entry changed status.
	OutletStatusChanged EventType = "OUTLET_STATUS_CHANGED"
	// RatingRecorded indicates a domain-rating measurement was stored.
	RatingRecorded EventType = "RATING_RECORDED"
)

// OutletEvent is the envelope for all outlet-related events.
type OutletEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	OutletID  string    `json:"outlet_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// OutletUpsertedPayload contains data for OUTLET_UPSERTED events.
type OutletUpsertedPayload struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Domain     string `json:"domain"`
	CampaignID string `json:"campaign_id,omitempty"`
}

// StatusChangedPayload contains data for OUTLET_STATUS_CHANGED events.
type StatusChangedPayload struct {
	CampaignID string `json:"campaign_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// RatingRecordedPayload contains data for RATING_RECORDED events.
type RatingRecordedPayload struct {
	RecordID int64  `json:"record_id"`
	Domain   string `json:"domain"`
	DataType string `json:"data_type"`
}
