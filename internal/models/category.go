package models

import "time"

// CategoryScope is the geographic scope of a press category.
type CategoryScope string

const (
	ScopeCity               CategoryScope = "city"
	ScopeStateOrProvince    CategoryScope = "state_or_province"
	ScopeCountry            CategoryScope = "country"
	ScopeMultiCountryRegion CategoryScope = "multi-country_region"
	ScopeInternational      CategoryScope = "international"
)

// Valid reports whether the scope is one of the known values.
func (s CategoryScope) Valid() bool {
	switch s {
	case ScopeCity, ScopeStateOrProvince, ScopeCountry, ScopeMultiCountryRegion, ScopeInternational:
		return true
	}
	return false
}

// Category is a per-campaign topical grouping with its own relevance
// judgment. Duplicate names within a campaign are allowed.
type Category struct {
	ID             string         `json:"id"`
	CampaignID     string         `json:"campaignId"`
	Name           string         `json:"name"`
	Scope          *CategoryScope `json:"scope"`
	Region         *string        `json:"region"`
	ExampleOutlets *string        `json:"exampleOutlets"`
	WhyRelevant    string         `json:"whyRelevant"`
	WhyNotRelevant string         `json:"whyNotRelevant"`
	RelevanceScore float64        `json:"relevanceScore"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// CategoryOutletLink associates an outlet with a category inside a campaign,
// with a relevance judgment independent from the direct campaign-outlet one.
type CategoryOutletLink struct {
	CampaignID     string    `json:"campaignId"`
	CategoryID     string    `json:"categoryId"`
	OutletID       string    `json:"outletId"`
	WhyRelevant    string    `json:"whyRelevant"`
	WhyNotRelevant string    `json:"whyNotRelevant"`
	RelevanceScore float64   `json:"relevanceScore"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
