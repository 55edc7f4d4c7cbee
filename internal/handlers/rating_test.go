package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/repository"
)

func newTestRatingHandler(t *testing.T) (*RatingHandler, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := repository.NewRatingRepository(db, logger.NewNopLogger())
	handler := NewRatingHandler(repo, nil, logger.NewNopLogger())
	return handler, mock, func() { db.Close() }
}

func TestRatingHandler_Record(t *testing.T) {
	handler, mock, cleanup := newTestRatingHandler(t)
	defer cleanup()

	router := gin.New()
	router.PATCH("/outlets/:id/domain-rating", handler.Record)

	t.Run("recorded", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO domain_rating_records").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectExec("INSERT INTO outlet_rating_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := performRequest(router, http.MethodPatch, "/outlets/o1/domain-rating", gin.H{
			"urlInput":     "https://dailypress.example",
			"dataType":     "authority",
			"domainRating": 55.0,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			RecordID int64 `json:"recordId"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.RecordID)
	})

	t.Run("unknown outlet is 404", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO domain_rating_records").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(43)))
		mock.ExpectExec("INSERT INTO outlet_rating_records").
			WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		w := performRequest(router, http.MethodPatch, "/outlets/nope/domain-rating", gin.H{
			"urlInput": "https://dailypress.example",
			"dataType": "authority",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad data type is 400", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/outlets/o1/domain-rating", gin.H{
			"urlInput": "https://dailypress.example",
			"dataType": "popularity",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRatingHandler_Status(t *testing.T) {
	handler, mock, cleanup := newTestRatingHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/outlets/dr-status", handler.Status)

	recent := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "url", "domain", "captured_at", "domain_rating", "valid_captured_at",
		}).
			AddRow("o1", "Fresh Daily", "https://fresh.example", "fresh.example", recent, 42.0, recent).
			AddRow("o2", "Silent Post", "https://silent.example", "silent.example", nil, nil, nil))

	w := performRequest(router, http.MethodGet, "/outlets/dr-status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int `json:"count"`
		Outlets []struct {
			OutletID     string `json:"outletId"`
			NeedsUpdate  bool   `json:"needsUpdate"`
			UpdateReason string `json:"updateReason"`
		} `json:"outlets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)

	// measured outlets sort before never-measured ones
	assert.Equal(t, "o1", resp.Outlets[0].OutletID)
	assert.False(t, resp.Outlets[0].NeedsUpdate)
	assert.Equal(t, "o2", resp.Outlets[1].OutletID)
	assert.True(t, resp.Outlets[1].NeedsUpdate)
	assert.Equal(t, "No DR fetched yet", resp.Outlets[1].UpdateReason)
}

func TestRatingHandler_CategoryRollup(t *testing.T) {
	handler, mock, cleanup := newTestRatingHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/outlets/campaign-categories-dr-status", handler.CategoryRollup)

	recent := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery("SELECT (.+) FROM press_categories c").
		WithArgs(testCampaignID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "campaign_id", "outlet_id"}).
			AddRow("c1", "Tech", testCampaignID, "o1"))
	mock.ExpectQuery("SELECT (.+) FROM press_outlets o").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "url", "domain", "captured_at", "domain_rating", "valid_captured_at",
		}).AddRow("o1", "Fresh Daily", "https://fresh.example", "fresh.example", recent, 42.0, recent))

	w := performRequest(router, http.MethodGet, "/outlets/campaign-categories-dr-status?campaignId="+testCampaignID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count      int `json:"count"`
		Categories []struct {
			CategoryID      string   `json:"categoryId"`
			OutletCount     int      `json:"outletCount"`
			AvgDomainRating *float64 `json:"avgDomainRating"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "c1", resp.Categories[0].CategoryID)
	assert.Equal(t, 1, resp.Categories[0].OutletCount)
	require.NotNil(t, resp.Categories[0].AvgDomainRating)
	assert.InDelta(t, 42.0, *resp.Categories[0].AvgDomainRating, 0.001)
}
