package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/events"
	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

type OutletHandler struct {
	repo      *repository.OutletRepository
	publisher *events.Publisher
	logger    logger.Logger
}

func NewOutletHandler(repo *repository.OutletRepository, publisher *events.Publisher, log logger.Logger) *OutletHandler {
	return &OutletHandler{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

type upsertOutletRequest struct {
	CampaignID       string  `json:"campaignId" binding:"required,uuid"`
	Name             string  `json:"outletName" binding:"required"`
	URL              string  `json:"outletUrl" binding:"required"`
	Domain           string  `json:"outletDomain"`
	WhyRelevant      string  `json:"whyRelevant"`
	WhyNotRelevant   string  `json:"whyNotRelevant"`
	RelevanceScore   float64 `json:"relevanceScore" binding:"gte=0,lte=100"`
	Status           string  `json:"status"`
	OverallRelevance *string `json:"overallRelevance"`
	Rationale        *string `json:"relevanceRationale"`
}

func (r *upsertOutletRequest) toUpsert() models.RelevanceUpsert {
	return models.RelevanceUpsert{
		CampaignID:       r.CampaignID,
		Name:             r.Name,
		URL:              r.URL,
		Domain:           r.Domain,
		WhyRelevant:      r.WhyRelevant,
		WhyNotRelevant:   r.WhyNotRelevant,
		RelevanceScore:   r.RelevanceScore,
		Status:           models.RelevanceStatus(r.Status),
		OverallRelevance: r.OverallRelevance,
		Rationale:        r.Rationale,
	}
}

// Create upserts an outlet by canonical URL together with its relevance
// judgment for the campaign.
func (h *OutletHandler) Create(c *gin.Context) {
	var req upsertOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	in := req.toUpsert()
	outlet, entry, err := h.repo.UpsertWithRelevance(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to upsert outlet")
		return
	}

	h.logger.Info("Outlet upserted",
		logger.String("outlet_id", outlet.ID),
		logger.String("campaign_id", entry.CampaignID),
	)

	h.publisher.PublishAsync(events.OutletEvent{
		EventType: events.OutletUpserted,
		OutletID:  outlet.ID,
		Payload: events.OutletUpsertedPayload{
			Name:       outlet.Name,
			URL:        outlet.URL,
			Domain:     outlet.Domain,
			CampaignID: entry.CampaignID,
		},
	})

	c.JSON(http.StatusCreated, gin.H{
		"outlet":    outlet,
		"relevance": entry,
	})
}

func (h *OutletHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	outlet, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Outlet not found")
		return
	}

	c.JSON(http.StatusOK, outlet)
}

type updateOutletRequest struct {
	Name   *string `json:"outletName"`
	URL    *string `json:"outletUrl"`
	Domain *string `json:"outletDomain"`
}

// Update applies a partial update to an outlet's name, url, or domain.
func (h *OutletHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req updateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	outlet, err := h.repo.UpdateFields(c.Request.Context(), id, repository.OutletUpdate{
		Name:   req.Name,
		URL:    req.URL,
		Domain: req.Domain,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update outlet")
		return
	}

	c.JSON(http.StatusOK, outlet)
}

// List returns outlets joined with their ledger entries, filtered and
// paginated.
func (h *OutletHandler) List(c *gin.Context) {
	filter := repository.OutletFilter{}

	if campaignID := c.Query("campaignId"); campaignID != "" {
		filter.CampaignID = &campaignID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	results, total, err := h.repo.ListByFilter(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": results,
		"total":   total,
	})
}

type searchRequest struct {
	Query      string  `json:"query" binding:"required"`
	CampaignID *string `json:"campaignId"`
	Limit      int     `json:"limit"`
}

// Search matches outlets by name or url substring.
func (h *OutletHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	results, err := h.repo.Search(c.Request.Context(), req.Query, req.CampaignID, req.Limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to search outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": results,
		"count":   len(results),
	})
}

type updateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// UpdateStatus transitions the outlet's ledger entry for one campaign.
func (h *OutletHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	campaignID := c.Query("campaignId")
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId query parameter is required"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.repo.UpdateStatus(c.Request.Context(), id, campaignID, models.RelevanceStatus(req.Status), req.Reason)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update status")
		return
	}

	h.publisher.PublishAsync(events.OutletEvent{
		EventType: events.OutletStatusChanged,
		OutletID:  id,
		Payload: events.StatusChangedPayload{
			CampaignID: campaignID,
			Status:     string(entry.Status),
			Reason:     stringValue(req.Reason),
		},
	})

	c.JSON(http.StatusOK, entry)
}

type bulkUpsertRequest struct {
	Entries []upsertOutletRequest `json:"entries" binding:"required,min=1,max=500,dive"`
}

// Bulk upserts a batch of outlets and ledger entries as one transaction.
func (h *OutletHandler) Bulk(c *gin.Context) {
	var req bulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entries := make([]models.RelevanceUpsert, 0, len(req.Entries))
	for i := range req.Entries {
		entries = append(entries, req.Entries[i].toUpsert())
	}

	results, err := h.repo.BulkUpsert(c.Request.Context(), entries)
	if err != nil {
		respondError(c, h.logger, err, "Failed to bulk upsert outlets")
		return
	}

	for _, result := range results {
		h.publisher.PublishAsync(events.OutletEvent{
			EventType: events.OutletUpserted,
			OutletID:  result.OutletID,
			Payload: events.OutletUpsertedPayload{
				Name:       result.Name,
				URL:        result.URL,
				CampaignID: result.CampaignID,
			},
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"created": results,
		"count":   len(results),
	})
}

// ListByCampaign returns the campaign's ledger entries, highest relevance
// first.
func (h *OutletHandler) ListByCampaign(c *gin.Context) {
	campaignID := c.Query("campaignId")
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId query parameter is required"})
		return
	}

	results, err := h.repo.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list campaign outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": results,
		"count":   len(results),
	})
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
