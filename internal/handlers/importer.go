package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/importer"
	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/metadata"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

// ImportHandler serves the Excel bulk import and the page-metadata
// suggestion endpoint.
type ImportHandler struct {
	outlets   *repository.OutletRepository
	extractor *metadata.Extractor
	logger    logger.Logger
}

func NewImportHandler(outlets *repository.OutletRepository, extractor *metadata.Extractor, log logger.Logger) *ImportHandler {
	return &ImportHandler{
		outlets:   outlets,
		extractor: extractor,
		logger:    log,
	}
}

// Import parses an uploaded spreadsheet and bulk-upserts the valid rows
// for the campaign. Rows that fail validation are reported per row; the
// valid rows still commit as one batch.
func (h *ImportHandler) Import(c *gin.Context) {
	campaignID := c.Query("campaignId")
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId query parameter is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required", "details": err.Error()})
		return
	}
	defer file.Close()

	rows, importErrors, err := importer.ParseOutletRows(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse spreadsheet", "details": err.Error()})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "No valid rows in spreadsheet",
			"errors": importErrors,
		})
		return
	}

	entries := make([]models.RelevanceUpsert, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.RelevanceUpsert{
			CampaignID:     campaignID,
			Name:           row.Name,
			URL:            row.URL,
			Domain:         row.Domain,
			WhyRelevant:    row.WhyRelevant,
			WhyNotRelevant: row.WhyNotRelevant,
			RelevanceScore: row.RelevanceScore,
			Status:         models.RelevanceStatus(row.Status),
		})
	}

	results, err := h.outlets.BulkUpsert(c.Request.Context(), entries)
	if err != nil {
		respondError(c, h.logger, err, "Failed to import outlets")
		return
	}

	h.logger.Info("Spreadsheet imported",
		logger.String("filename", header.Filename),
		logger.String("campaign_id", campaignID),
		logger.Int("imported", len(results)),
		logger.Int("rejected", len(importErrors)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"created": results,
		"count":   len(results),
		"errors":  importErrors,
	})
}

// Metadata fetches a page and suggests outlet fields for form prefilling.
func (h *ImportHandler) Metadata(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	suggestion, err := h.extractor.Extract(c.Request.Context(), pageURL)
	if err != nil {
		respondError(c, h.logger, err, "Failed to extract metadata")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
