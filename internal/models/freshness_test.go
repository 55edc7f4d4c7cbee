package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		latest      *time.Time
		latestValid *time.Time
		want        FreshnessLabel
	}{
		{
			name: "no measurement at all",
			want: FreshnessNoData,
		},
		{
			name:   "null score two months old",
			latest: timePtr(now.AddDate(0, -2, 0)),
			want:   FreshnessRetryDue,
		},
		{
			name:   "null score two weeks old",
			latest: timePtr(now.AddDate(0, 0, -14)),
			want:   FreshnessPending,
		},
		{
			name:        "valid score two years old",
			latest:      timePtr(now.AddDate(-2, 0, 0)),
			latestValid: timePtr(now.AddDate(-2, 0, 0)),
			want:        FreshnessStale,
		},
		{
			name:        "valid score two months old",
			latest:      timePtr(now.AddDate(0, -2, 0)),
			latestValid: timePtr(now.AddDate(0, -2, 0)),
			want:        FreshnessFresh,
		},
		{
			name:        "stale valid with a recent failed attempt",
			latest:      timePtr(now.AddDate(0, 0, -2)),
			latestValid: timePtr(now.AddDate(-2, 0, 0)),
			want:        FreshnessStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.latest, tt.latestValid, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	// exactly one month old is not yet overdue
	exactlyMonth := now.AddDate(0, -1, 0)
	assert.Equal(t, FreshnessPending, Classify(&exactlyMonth, nil, now))

	// exactly one year old is not yet stale
	exactlyYear := now.AddDate(-1, 0, 0)
	assert.Equal(t, FreshnessFresh, Classify(&exactlyYear, &exactlyYear, now))
}

func TestNeedsUpdate(t *testing.T) {
	assert.True(t, FreshnessNoData.NeedsUpdate())
	assert.True(t, FreshnessRetryDue.NeedsUpdate())
	assert.True(t, FreshnessStale.NeedsUpdate())
	assert.False(t, FreshnessFresh.NeedsUpdate())
	assert.False(t, FreshnessPending.NeedsUpdate())
}

func TestReasonStrings(t *testing.T) {
	assert.Equal(t, "No DR fetched yet", FreshnessNoData.Reason())
	assert.Equal(t, "DR fetch to retry", FreshnessRetryDue.Reason())
	assert.Equal(t, "DR outdated", FreshnessStale.Reason())
	assert.Equal(t, "DR exists < 1 year", FreshnessFresh.Reason())
	assert.Equal(t, "DR attempt < 1 month", FreshnessPending.Reason())
}

func TestIsLowRating(t *testing.T) {
	assert.False(t, IsLowRating(nil))
	assert.False(t, IsLowRating(floatPtr(10)))
	assert.True(t, IsLowRating(floatPtr(9.99)))
	assert.True(t, IsLowRating(floatPtr(0)))
	assert.False(t, IsLowRating(floatPtr(42)))
}
