package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

type CategoryHandler struct {
	repo   *repository.CategoryRepository
	logger logger.Logger
}

func NewCategoryHandler(repo *repository.CategoryRepository, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo:   repo,
		logger: log,
	}
}

type createCategoryRequest struct {
	CampaignID     string  `json:"campaignId" binding:"required,uuid"`
	Name           string  `json:"name" binding:"required"`
	Scope          *string `json:"scope"`
	Region         *string `json:"region"`
	ExampleOutlets *string `json:"exampleOutlets"`
	WhyRelevant    string  `json:"whyRelevant"`
	WhyNotRelevant string  `json:"whyNotRelevant"`
	RelevanceScore float64 `json:"relevanceScore" binding:"gte=0,lte=100"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	in := repository.CategoryCreate{
		CampaignID:     req.CampaignID,
		Name:           req.Name,
		Region:         req.Region,
		ExampleOutlets: req.ExampleOutlets,
		WhyRelevant:    req.WhyRelevant,
		WhyNotRelevant: req.WhyNotRelevant,
		RelevanceScore: req.RelevanceScore,
	}
	if req.Scope != nil {
		scope := models.CategoryScope(*req.Scope)
		in.Scope = &scope
	}

	category, err := h.repo.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name           *string  `json:"name"`
	Scope          *string  `json:"scope"`
	Region         *string  `json:"region"`
	ExampleOutlets *string  `json:"exampleOutlets"`
	WhyRelevant    *string  `json:"whyRelevant"`
	WhyNotRelevant *string  `json:"whyNotRelevant"`
	RelevanceScore *float64 `json:"relevanceScore"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	upd := repository.CategoryUpdate{
		Name:           req.Name,
		Region:         req.Region,
		ExampleOutlets: req.ExampleOutlets,
		WhyRelevant:    req.WhyRelevant,
		WhyNotRelevant: req.WhyNotRelevant,
		RelevanceScore: req.RelevanceScore,
	}
	if req.Scope != nil {
		scope := models.CategoryScope(*req.Scope)
		upd.Scope = &scope
	}

	category, err := h.repo.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	campaignID := c.Query("campaignId")
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId query parameter is required"})
		return
	}

	categories, err := h.repo.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

type linkOutletRequest struct {
	CampaignID     string  `json:"campaignId" binding:"required,uuid"`
	OutletID       string  `json:"outletId" binding:"required,uuid"`
	WhyRelevant    string  `json:"whyRelevant"`
	WhyNotRelevant string  `json:"whyNotRelevant"`
	RelevanceScore float64 `json:"relevanceScore" binding:"gte=0,lte=100"`
}

// AddOutlet links an outlet to the category with its own relevance
// judgment, keyed on (campaign, category, outlet).
func (h *CategoryHandler) AddOutlet(c *gin.Context) {
	categoryID := c.Param("id")

	var req linkOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	link, err := h.repo.UpsertLink(c.Request.Context(), &models.CategoryOutletLink{
		CampaignID:     req.CampaignID,
		CategoryID:     categoryID,
		OutletID:       req.OutletID,
		WhyRelevant:    req.WhyRelevant,
		WhyNotRelevant: req.WhyNotRelevant,
		RelevanceScore: req.RelevanceScore,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to link outlet to category")
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *CategoryHandler) ListOutlets(c *gin.Context) {
	categoryID := c.Param("id")

	links, err := h.repo.ListLinks(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list category outlets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": links,
		"count":   len(links),
	})
}
