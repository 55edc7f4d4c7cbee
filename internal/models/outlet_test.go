package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"strips www", "https://www.example.com/news", "example.com"},
		{"no www", "https://example.com", "example.com"},
		{"subdomain kept", "https://press.example.co.uk/about", "press.example.co.uk"},
		{"port dropped", "https://www.example.com:8080", "example.com"},
		{"unparseable falls back to raw", "://not a url", "://not a url"},
		{"bare string falls back to raw", "example.com", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.url))
		})
	}
}

func TestValidateOutletInput(t *testing.T) {
	assert.NoError(t, ValidateOutletInput("Daily Press", "https://example.com"))

	err := ValidateOutletInput("", "https://example.com")
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	err = ValidateOutletInput("Daily Press", "not-a-url")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "url", ve.Field)
}

func TestRelevanceUpsertValidate(t *testing.T) {
	base := func() RelevanceUpsert {
		return RelevanceUpsert{
			CampaignID:     "8b7cbe4e-54c0-4acd-9f2a-3a40f3022d3e",
			Name:           "Daily Press",
			URL:            "https://www.dailypress.example",
			WhyRelevant:    "local coverage",
			WhyNotRelevant: "paywalled",
			RelevanceScore: 72.5,
		}
	}

	t.Run("valid", func(t *testing.T) {
		u := base()
		assert.NoError(t, u.Validate())
	})

	t.Run("score above range", func(t *testing.T) {
		u := base()
		u.RelevanceScore = 100.01
		assert.Error(t, u.Validate())
	})

	t.Run("score below range", func(t *testing.T) {
		u := base()
		u.RelevanceScore = -1
		assert.Error(t, u.Validate())
	})

	t.Run("score boundaries allowed", func(t *testing.T) {
		u := base()
		u.RelevanceScore = 0
		assert.NoError(t, u.Validate())
		u.RelevanceScore = 100
		assert.NoError(t, u.Validate())
	})

	t.Run("missing campaign", func(t *testing.T) {
		u := base()
		u.CampaignID = ""
		assert.Error(t, u.Validate())
	})

	t.Run("bad status", func(t *testing.T) {
		u := base()
		u.Status = "paused"
		assert.Error(t, u.Validate())
	})
}

func TestRelevanceUpsertNormalize(t *testing.T) {
	u := RelevanceUpsert{URL: "https://www.example.com/news"}
	u.Normalize()
	assert.Equal(t, "example.com", u.Domain)
	assert.Equal(t, RelevanceOpen, u.Status)

	u = RelevanceUpsert{URL: "https://example.com", Domain: "custom.example", Status: RelevanceDenied}
	u.Normalize()
	assert.Equal(t, "custom.example", u.Domain)
	assert.Equal(t, RelevanceDenied, u.Status)
}
