package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/events"
	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

type RatingHandler struct {
	repo      *repository.RatingRepository
	publisher *events.Publisher
	logger    logger.Logger
}

func NewRatingHandler(repo *repository.RatingRepository, publisher *events.Publisher, log logger.Logger) *RatingHandler {
	return &RatingHandler{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

type recordMeasurementRequest struct {
	URLInput   string          `json:"urlInput" binding:"required"`
	Domain     string          `json:"domain"`
	DataType   string          `json:"dataType" binding:"required"`
	CapturedAt *time.Time      `json:"capturedAt"`
	RawData    json.RawMessage `json:"rawData"`

	DomainRating       *float64 `json:"domainRating"`
	URLRating          *float64 `json:"urlRating"`
	Backlinks          *int64   `json:"backlinks"`
	Refdomains         *int64   `json:"refdomains"`
	DofollowBacklinks  *int64   `json:"dofollowBacklinks"`
	DofollowRefdomains *int64   `json:"dofollowRefdomains"`

	TrafficMonthlyAvg     *float64 `json:"trafficMonthlyAvg"`
	TrafficCostMonthlyAvg *float64 `json:"trafficCostMonthlyAvg"`
}

// Record appends a domain-rating measurement for the outlet. Nullable
// fields represent "measured but unavailable".
func (h *RatingHandler) Record(c *gin.Context) {
	outletID := c.Param("id")

	var req recordMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	m := models.RatingMeasurement{
		OutletID:           outletID,
		URLInput:           req.URLInput,
		Domain:             req.Domain,
		DataType:           models.MeasurementType(req.DataType),
		RawData:            req.RawData,
		DomainRating:       req.DomainRating,
		URLRating:          req.URLRating,
		Backlinks:          req.Backlinks,
		Refdomains:         req.Refdomains,
		DofollowBacklinks:  req.DofollowBacklinks,
		DofollowRefdomains: req.DofollowRefdomains,

		TrafficMonthlyAvg:     req.TrafficMonthlyAvg,
		TrafficCostMonthlyAvg: req.TrafficCostMonthlyAvg,
	}
	if m.Domain == "" {
		m.Domain = models.ExtractDomain(req.URLInput)
	}
	if req.CapturedAt != nil {
		m.CapturedAt = *req.CapturedAt
	}

	recordID, err := h.repo.RecordMeasurement(c.Request.Context(), &m)
	if err != nil {
		respondError(c, h.logger, err, "Failed to record measurement")
		return
	}

	h.publisher.PublishAsync(events.OutletEvent{
		EventType: events.RatingRecorded,
		OutletID:  outletID,
		Payload: events.RatingRecordedPayload{
			RecordID: recordID,
			Domain:   m.Domain,
			DataType: string(m.DataType),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"recordId": recordID})
}

// Status returns the freshness classification for every live outlet.
func (h *RatingHandler) Status(c *gin.Context) {
	statuses, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to classify outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": statuses,
		"count":   len(statuses),
	})
}

// Stale returns the outlets whose rating data calls for a re-fetch, most
// overdue first.
func (h *RatingHandler) Stale(c *gin.Context) {
	statuses, err := h.repo.ListNeedingUpdate(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to classify outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": statuses,
		"count":   len(statuses),
	})
}

// LowRating returns the outlets whose latest valid rating is low.
func (h *RatingHandler) LowRating(c *gin.Context) {
	statuses, err := h.repo.ListLowRating(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to classify outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": statuses,
		"count":   len(statuses),
	})
}

// CategoryRollup aggregates the freshness view per category.
func (h *RatingHandler) CategoryRollup(c *gin.Context) {
	var campaignID *string
	if id := c.Query("campaignId"); id != "" {
		campaignID = &id
	}

	rollups, err := h.repo.RollupByCategory(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to roll up categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": rollups,
		"count":      len(rollups),
	})
}
