package models

import (
	"fmt"
	"time"
)

// RelevanceStatus is the lifecycle of a campaign-outlet relevance judgment.
type RelevanceStatus string

const (
	RelevanceOpen   RelevanceStatus = "open"
	RelevanceEnded  RelevanceStatus = "ended"
	RelevanceDenied RelevanceStatus = "denied"
)

// Valid reports whether the status is one of the known values.
func (s RelevanceStatus) Valid() bool {
	switch s {
	case RelevanceOpen, RelevanceEnded, RelevanceDenied:
		return true
	}
	return false
}

// CampaignOutlet is one relevance judgment connecting an outlet to a
// campaign. Exactly one row exists per (campaignId, outletId) pair.
type CampaignOutlet struct {
	CampaignID         string          `json:"campaignId"`
	OutletID           string          `json:"outletId"`
	WhyRelevant        string          `json:"whyRelevant"`
	WhyNotRelevant     string          `json:"whyNotRelevant"`
	RelevanceScore     float64         `json:"relevanceScore"`
	Status             RelevanceStatus `json:"status"`
	OverallRelevance   *string         `json:"overallRelevance"`
	RelevanceRationale *string         `json:"relevanceRationale"`
	StartedAt          *time.Time      `json:"startedAt"`
	EndedAt            *time.Time      `json:"endedAt"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// OutletRelevance is an outlet row joined with its ledger entry for one
// campaign, as returned by filtered listings.
type OutletRelevance struct {
	Outlet
	CampaignID         *string          `json:"campaignId,omitempty"`
	WhyRelevant        *string          `json:"whyRelevant,omitempty"`
	WhyNotRelevant     *string          `json:"whyNotRelevant,omitempty"`
	RelevanceScore     *float64         `json:"relevanceScore,omitempty"`
	RelevanceStatus    *RelevanceStatus `json:"relevanceStatus,omitempty"`
	OverallRelevance   *string          `json:"overallRelevance,omitempty"`
	RelevanceRationale *string          `json:"relevanceRationale,omitempty"`
	EndedAt            *time.Time       `json:"endedAt,omitempty"`
}

// RelevanceUpsert is the input for the combined outlet + ledger upsert.
type RelevanceUpsert struct {
	CampaignID       string
	Name             string
	URL              string
	Domain           string
	WhyRelevant      string
	WhyNotRelevant   string
	RelevanceScore   float64
	Status           RelevanceStatus
	OverallRelevance *string
	Rationale        *string
}

// Validate enforces the registry's own invariants before any write.
func (r *RelevanceUpsert) Validate() error {
	if err := ValidateOutletInput(r.Name, r.URL); err != nil {
		return err
	}
	if r.CampaignID == "" {
		return NewValidationError("campaignId", "must not be empty")
	}
	if r.RelevanceScore < 0 || r.RelevanceScore > 100 {
		return NewValidationError("relevanceScore",
			fmt.Sprintf("must be in [0,100], got %v", r.RelevanceScore))
	}
	if r.Status != "" && !r.Status.Valid() {
		return NewValidationError("status", "must be one of open, ended, denied")
	}
	return nil
}

// BulkUpsertResult echoes one processed bulk entry back to the caller.
type BulkUpsertResult struct {
	OutletID   string `json:"outletId"`
	Name       string `json:"outletName"`
	URL        string `json:"outletUrl"`
	CampaignID string `json:"campaignId"`
}

// Normalize fills derived and defaulted fields.
func (r *RelevanceUpsert) Normalize() {
	if r.Domain == "" {
		r.Domain = ExtractDomain(r.URL)
	}
	if r.Status == "" {
		r.Status = RelevanceOpen
	}
}
