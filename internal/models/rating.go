package models

import (
	"encoding/json"
	"time"
)

// MeasurementType discriminates what an external measurement captured.
type MeasurementType string

const (
	MeasurementAuthority MeasurementType = "authority"
	MeasurementTraffic   MeasurementType = "traffic"
)

// Valid reports whether the type is one of the known values.
func (t MeasurementType) Valid() bool {
	return t == MeasurementAuthority || t == MeasurementTraffic
}

// DomainRatingRecord is one immutable external measurement for a domain.
// Records are append-only; an outlet accumulates many over time.
type DomainRatingRecord struct {
	ID         int64           `json:"id"`
	URLInput   string          `json:"urlInput"`
	Domain     string          `json:"domain"`
	CapturedAt time.Time       `json:"capturedAt"`
	DataType   MeasurementType `json:"dataType"`
	RawData    json.RawMessage `json:"rawData,omitempty"`

	// authority fields
	DomainRating       *float64 `json:"domainRating"`
	URLRating          *float64 `json:"urlRating"`
	Backlinks          *int64   `json:"backlinks"`
	Refdomains         *int64   `json:"refdomains"`
	DofollowBacklinks  *int64   `json:"dofollowBacklinks"`
	DofollowRefdomains *int64   `json:"dofollowRefdomains"`

	// traffic fields
	TrafficMonthlyAvg     *float64 `json:"trafficMonthlyAvg"`
	TrafficCostMonthlyAvg *float64 `json:"trafficCostMonthlyAvg"`

	CreatedAt time.Time `json:"createdAt"`
}

// RatingMeasurement is the input for recording a measurement against an
// outlet. Nullable fields stay nil to represent "measured but unavailable".
type RatingMeasurement struct {
	OutletID   string
	URLInput   string
	Domain     string
	CapturedAt time.Time
	DataType   MeasurementType
	RawData    json.RawMessage

	DomainRating       *float64
	URLRating          *float64
	Backlinks          *int64
	Refdomains         *int64
	DofollowBacklinks  *int64
	DofollowRefdomains *int64

	TrafficMonthlyAvg     *float64
	TrafficCostMonthlyAvg *float64
}

// Validate enforces type-correctness of the discriminator.
func (m *RatingMeasurement) Validate() error {
	if m.OutletID == "" {
		return NewValidationError("outletId", "must not be empty")
	}
	if !m.DataType.Valid() {
		return NewValidationError("dataType", "must be authority or traffic")
	}
	return nil
}
