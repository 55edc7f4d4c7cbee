package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

// InternalHandler serves service-to-service endpoints that are not part of
// the public API surface.
type InternalHandler struct {
	outlets *repository.OutletRepository
	ratings *repository.RatingRepository
	logger  logger.Logger
}

func NewInternalHandler(outlets *repository.OutletRepository, ratings *repository.RatingRepository, log logger.Logger) *InternalHandler {
	return &InternalHandler{
		outlets: outlets,
		ratings: ratings,
		logger:  log,
	}
}

// ByIDs returns the outlets for a comma-separated list of ids.
func (h *InternalHandler) ByIDs(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}

	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	outlets, err := h.outlets.ByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": outlets,
		"count":   len(outlets),
	})
}

// campaignOutletView is a ledger entry joined with the outlet's freshness
// classification.
type campaignOutletView struct {
	models.OutletRelevance
	NeedsUpdate       bool     `json:"needsUpdate"`
	UpdateReason      string   `json:"updateReason,omitempty"`
	LatestValidRating *float64 `json:"latestValidRating"`
	HasLowRating      bool     `json:"hasLowRating"`
}

// ByCampaign composes the campaign's ledger with the freshness view.
func (h *InternalHandler) ByCampaign(c *gin.Context) {
	campaignID := c.Param("campaignId")

	entries, err := h.outlets.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list campaign outlets")
		return
	}

	statuses, err := h.ratings.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to classify outlets")
		return
	}
	byOutlet := make(map[string]models.RatingStatus, len(statuses))
	for _, s := range statuses {
		byOutlet[s.OutletID] = s
	}

	views := make([]campaignOutletView, 0, len(entries))
	for _, entry := range entries {
		view := campaignOutletView{OutletRelevance: entry}
		if status, ok := byOutlet[entry.ID]; ok {
			view.NeedsUpdate = status.NeedsUpdate
			view.UpdateReason = status.UpdateReason
			view.LatestValidRating = status.LatestValidRating
			view.HasLowRating = status.HasLowRating
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": views,
		"count":   len(views),
	})
}
