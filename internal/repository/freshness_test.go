package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gopress/internal/models"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func snapshotColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "url", "domain",
		"latest_captured_at", "valid_domain_rating", "valid_captured_at",
	})
}

func TestRatingRepository_ListAll(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	repo.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	recent := fixedNow.AddDate(0, -2, 0)
	old := fixedNow.AddDate(-2, 0, 0)

	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("o1", "A", "https://a.example", "a.example", old, 42.0, old).
			AddRow("o2", "B", "https://b.example", "b.example", nil, nil, nil).
			AddRow("o3", "C", "https://c.example", "c.example", recent, 42.0, recent))

	statuses, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	// most recently measured first, never-measured last
	assert.Equal(t, "o3", statuses[0].OutletID)
	assert.Equal(t, "o1", statuses[1].OutletID)
	assert.Equal(t, "o2", statuses[2].OutletID)

	assert.Equal(t, models.ReasonFresh, statuses[0].UpdateReason)
	assert.False(t, statuses[0].NeedsUpdate)
	assert.Equal(t, 42.0, *statuses[0].LatestValidRating)

	assert.Equal(t, models.ReasonStale, statuses[1].UpdateReason)
	assert.True(t, statuses[1].NeedsUpdate)

	assert.Equal(t, models.ReasonNoData, statuses[2].UpdateReason)
	assert.True(t, statuses[2].NeedsUpdate)
}

func TestRatingRepository_ListNeedingUpdate(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	repo.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	retryAge := fixedNow.AddDate(0, 0, -40)
	staleAge := fixedNow.AddDate(-2, 0, 0)
	freshAge := fixedNow.AddDate(0, -2, 0)

	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("fresh", "Fresh", "https://f.example", "f.example", freshAge, 42.0, freshAge).
			AddRow("retry", "Retry", "https://r.example", "r.example", retryAge, nil, nil).
			AddRow("stale", "Stale", "https://s.example", "s.example", staleAge, 42.0, staleAge).
			AddRow("nodata", "NoData", "https://n.example", "n.example", nil, nil, nil))

	needing, err := repo.ListNeedingUpdate(ctx)
	require.NoError(t, err)
	require.Len(t, needing, 3)

	// most overdue first: never measured, then oldest
	assert.Equal(t, "nodata", needing[0].OutletID)
	assert.Equal(t, "stale", needing[1].OutletID)
	assert.Equal(t, "retry", needing[2].OutletID)

	assert.Equal(t, models.ReasonRetryDue, needing[2].UpdateReason)
}

func TestRatingRepository_ListNeedingUpdate_Scenario(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	repo.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	// failed fetch 40 days ago: due for retry
	attempt := fixedNow.AddDate(0, 0, -40)
	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("a", "A", "https://a.example", "a.example", attempt, nil, nil))

	needing, err := repo.ListNeedingUpdate(ctx)
	require.NoError(t, err)
	require.Len(t, needing, 1)
	assert.Equal(t, models.ReasonRetryDue, needing[0].UpdateReason)

	// a fresh valid measurement clears it
	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("a", "A", "https://a.example", "a.example", fixedNow, 42.0, fixedNow))

	needing, err = repo.ListNeedingUpdate(ctx)
	require.NoError(t, err)
	assert.Empty(t, needing)

	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("a", "A", "https://a.example", "a.example", fixedNow, 42.0, fixedNow))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 42.0, *all[0].LatestValidRating)
	assert.False(t, all[0].NeedsUpdate)
}

func TestRatingRepository_ListLowRating(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	repo.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	measured := fixedNow.AddDate(0, -1, 5)

	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("o1", "Zeta", "https://z.example", "z.example", measured, 9.99, measured).
			AddRow("o2", "Alpha", "https://a.example", "a.example", measured, 3.0, measured).
			AddRow("o3", "Mid", "https://m.example", "m.example", measured, 10.0, measured))

	low, err := repo.ListLowRating(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)

	// ordered by outlet name; rating exactly 10 is not low
	assert.Equal(t, "Alpha", low[0].OutletName)
	assert.Equal(t, "Zeta", low[1].OutletName)
}

func TestRatingRepository_RollupByCategory(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	repo.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	campaignID := "5a1e4e8c-0000-4000-8000-000000000001"
	measured := fixedNow.AddDate(0, -1, 5)
	staleAge := fixedNow.AddDate(-2, 0, 0)

	mock.ExpectQuery("SELECT (.+) FROM press_categories c").
		WithArgs(campaignID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "campaign_id", "outlet_id"}).
			AddRow("c1", "Local", campaignID, "o1").
			AddRow("c1", "Local", campaignID, "o2").
			AddRow("c1", "Local", campaignID, "o3").
			AddRow("c2", "Empty", campaignID, nil))

	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(snapshotColumns().
			AddRow("o1", "A", "https://a.example", "a.example", measured, 20.0, measured).
			AddRow("o2", "B", "https://b.example", "b.example", staleAge, 5.0, staleAge).
			AddRow("o3", "C", "https://c.example", "c.example", nil, nil, nil))

	rollups, err := repo.RollupByCategory(ctx, &campaignID)
	require.NoError(t, err)
	require.Len(t, rollups, 2)

	local := rollups[0]
	assert.Equal(t, "c1", local.CategoryID)
	assert.Equal(t, 3, local.OutletCount)
	assert.Equal(t, 2, local.WithValidRating)
	assert.Equal(t, 1, local.WithLowRating)
	assert.Equal(t, 2, local.NeedingUpdate)
	require.NotNil(t, local.AvgDomainRating)
	assert.Equal(t, 12.5, *local.AvgDomainRating)

	empty := rollups[1]
	assert.Equal(t, 0, empty.OutletCount)
	assert.Nil(t, empty.AvgDomainRating)
}
