package models

import "time"

// FreshnessLabel classifies how current an outlet's domain-rating data is.
type FreshnessLabel string

const (
	FreshnessNoData   FreshnessLabel = "no_data"
	FreshnessRetryDue FreshnessLabel = "retry_due"
	FreshnessStale    FreshnessLabel = "stale"
	FreshnessFresh    FreshnessLabel = "fresh"
	FreshnessPending  FreshnessLabel = "pending"
)

// Update reasons surfaced to consumers alongside the label.
const (
	ReasonNoData   = "No DR fetched yet"
	ReasonRetryDue = "DR fetch to retry"
	ReasonStale    = "DR outdated"
	ReasonFresh    = "DR exists < 1 year"
	ReasonPending  = "DR attempt < 1 month"
)

const lowRatingThreshold = 10

// RatingStatus is one freshness classification row for an outlet.
type RatingStatus struct {
	OutletID              string     `json:"outletId"`
	OutletName            string     `json:"outletName"`
	OutletURL             string     `json:"outletUrl"`
	OutletDomain          string     `json:"outletDomain"`
	NeedsUpdate           bool       `json:"needsUpdate"`
	UpdateReason          string     `json:"updateReason"`
	LatestMeasurementDate *time.Time `json:"latestMeasurementDate"`
	LatestValidRating     *float64   `json:"latestValidRating"`
	LatestValidRatingDate *time.Time `json:"latestValidRatingDate"`
	HasLowRating          bool       `json:"hasLowRating"`
}

// Classify derives the freshness label for an outlet from the capture time
// of its latest authority measurement and of its latest measurement with a
// non-null rating. First match wins:
//
//	no latest                          -> no_data
//	no valid, latest older than 1 month -> retry_due
//	valid older than 1 year             -> stale
//	valid within 1 year                 -> fresh
//	no valid, latest within 1 month     -> pending
func Classify(latest, latestValid *time.Time, now time.Time) FreshnessLabel {
	oneMonthAgo := now.AddDate(0, -1, 0)
	oneYearAgo := now.AddDate(-1, 0, 0)

	switch {
	case latest == nil:
		return FreshnessNoData
	case latestValid == nil && latest.Before(oneMonthAgo):
		return FreshnessRetryDue
	case latestValid != nil && latestValid.Before(oneYearAgo):
		return FreshnessStale
	case latestValid != nil:
		return FreshnessFresh
	default:
		return FreshnessPending
	}
}

// Reason returns the consumer-facing string for a label.
func (l FreshnessLabel) Reason() string {
	switch l {
	case FreshnessNoData:
		return ReasonNoData
	case FreshnessRetryDue:
		return ReasonRetryDue
	case FreshnessStale:
		return ReasonStale
	case FreshnessFresh:
		return ReasonFresh
	case FreshnessPending:
		return ReasonPending
	}
	return ""
}

// NeedsUpdate reports whether the label calls for a re-fetch.
func (l FreshnessLabel) NeedsUpdate() bool {
	switch l {
	case FreshnessNoData, FreshnessRetryDue, FreshnessStale:
		return true
	}
	return false
}

// IsLowRating reports whether a valid rating falls below the low threshold.
// A nil rating is never low.
func IsLowRating(rating *float64) bool {
	return rating != nil && *rating < lowRatingThreshold
}

// CategoryRatingRollup aggregates freshness over the outlets linked to one
// category.
type CategoryRatingRollup struct {
	CategoryID      string   `json:"categoryId"`
	CategoryName    string   `json:"categoryName"`
	CampaignID      string   `json:"campaignId"`
	OutletCount     int      `json:"outletCount"`
	WithValidRating int      `json:"withValidRating"`
	WithLowRating   int      `json:"withLowRating"`
	NeedingUpdate   int      `json:"needingUpdate"`
	AvgDomainRating *float64 `json:"avgDomainRating"`
}
