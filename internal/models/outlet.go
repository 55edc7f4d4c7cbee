// Package models defines the domain types shared by repositories and handlers.
package models

import (
	"net/url"
	"strings"
	"time"
)

// StatusToDelete marks an outlet as soft-deleted. Outlets with this status
// are excluded from the freshness view but keep their row.
const StatusToDelete = "to_delete"

// Outlet is a press publication tracked across campaigns, keyed by its
// canonical URL.
type Outlet struct {
	ID        string    `json:"id"`
	Name      string    `json:"outletName"`
	URL       string    `json:"outletUrl"`
	Domain    string    `json:"outletDomain"`
	Status    *string   `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExtractDomain derives a domain from a URL by stripping a leading "www."
// from the host. Falls back to the raw string when the URL does not parse.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// ValidateOutletInput checks the invariants the registry owns: a non-empty
// name and a syntactically valid absolute URL.
func ValidateOutletInput(name, rawURL string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return NewValidationError("url", "must be a valid absolute URL")
	}
	return nil
}
