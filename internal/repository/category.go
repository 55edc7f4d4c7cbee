package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

type CategoryRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCategoryRepository(db *sql.DB, log logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: log,
	}
}

const categoryColumns = `
	id, campaign_id, name, scope, region, example_outlets,
	why_relevant, why_not_relevant, relevance_score, created_at, updated_at`

// CategoryCreate is the input for creating a category. Duplicate names
// within a campaign are allowed.
type CategoryCreate struct {
	CampaignID     string
	Name           string
	Scope          *models.CategoryScope
	Region         *string
	ExampleOutlets *string
	WhyRelevant    string
	WhyNotRelevant string
	RelevanceScore float64
}

func (c *CategoryCreate) Validate() error {
	if c.CampaignID == "" {
		return models.NewValidationError("campaignId", "must not be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return models.NewValidationError("name", "must not be empty")
	}
	if c.Scope != nil && !c.Scope.Valid() {
		return models.NewValidationError("scope", "unknown scope value")
	}
	if c.RelevanceScore < 0 || c.RelevanceScore > 100 {
		return models.NewValidationError("relevanceScore", "must be in [0,100]")
	}
	return nil
}

func (r *CategoryRepository) Create(ctx context.Context, in *CategoryCreate) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	query := `
		INSERT INTO press_categories (
			id, campaign_id, name, scope, region, example_outlets,
			why_relevant, why_not_relevant, relevance_score, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + categoryColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		in.CampaignID,
		in.Name,
		scopeArg(in.Scope),
		in.Region,
		in.ExampleOutlets,
		in.WhyRelevant,
		in.WhyNotRelevant,
		in.RelevanceScore,
		now,
	)

	category, err := scanCategoryRow(row)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	r.logger.Info("category created",
		logger.String("category_id", category.ID),
		logger.String("campaign_id", category.CampaignID),
	)

	return category, nil
}

// CategoryUpdate holds the optional fields for a partial category update.
type CategoryUpdate struct {
	Name           *string
	Scope          *models.CategoryScope
	Region         *string
	ExampleOutlets *string
	WhyRelevant    *string
	WhyNotRelevant *string
	RelevanceScore *float64
}

func (u *CategoryUpdate) empty() bool {
	return u.Name == nil && u.Scope == nil && u.Region == nil &&
		u.ExampleOutlets == nil && u.WhyRelevant == nil &&
		u.WhyNotRelevant == nil && u.RelevanceScore == nil
}

// Update applies a partial update. An empty update is a ValidationError.
func (r *CategoryRepository) Update(ctx context.Context, id string, upd CategoryUpdate) (*models.Category, error) {
	if upd.empty() {
		return nil, models.NewValidationError("body", "at least one field must be supplied")
	}
	if upd.Scope != nil && !upd.Scope.Valid() {
		return nil, models.NewValidationError("scope", "unknown scope value")
	}
	if upd.RelevanceScore != nil && (*upd.RelevanceScore < 0 || *upd.RelevanceScore > 100) {
		return nil, models.NewValidationError("relevanceScore", "must be in [0,100]")
	}

	setClauses := []string{"updated_at = now()"}
	args := []any{id}
	pos := 2

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.Scope != nil {
		addSet("scope", string(*upd.Scope))
	}
	if upd.Region != nil {
		addSet("region", *upd.Region)
	}
	if upd.ExampleOutlets != nil {
		addSet("example_outlets", *upd.ExampleOutlets)
	}
	if upd.WhyRelevant != nil {
		addSet("why_relevant", *upd.WhyRelevant)
	}
	if upd.WhyNotRelevant != nil {
		addSet("why_not_relevant", *upd.WhyNotRelevant)
	}
	if upd.RelevanceScore != nil {
		addSet("relevance_score", *upd.RelevanceScore)
	}

	// set clauses use fixed column names; values are parameterized
	query := `UPDATE press_categories SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING ` + categoryColumns

	row := r.db.QueryRowContext(ctx, query, args...)
	category, err := scanCategoryRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// ListByCampaign returns the campaign's categories, newest first.
func (r *CategoryRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM press_categories
		WHERE campaign_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		category, scanErr := scanCategoryRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan category: %w", scanErr)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

const linkColumns = `
	campaign_id, category_id, outlet_id, why_relevant, why_not_relevant,
	relevance_score, created_at, updated_at`

// UpsertLink inserts or merges the relevance judgment keyed on
// (campaign_id, category_id, outlet_id).
func (r *CategoryRepository) UpsertLink(ctx context.Context, link *models.CategoryOutletLink) (*models.CategoryOutletLink, error) {
	if link.CampaignID == "" || link.CategoryID == "" || link.OutletID == "" {
		return nil, models.NewValidationError("link", "campaignId, categoryId and outletId are required")
	}
	if link.RelevanceScore < 0 || link.RelevanceScore > 100 {
		return nil, models.NewValidationError("relevanceScore", "must be in [0,100]")
	}

	query := `
		INSERT INTO category_outlets (
			campaign_id, category_id, outlet_id, why_relevant, why_not_relevant,
			relevance_score, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (campaign_id, category_id, outlet_id) DO UPDATE SET
			why_relevant = EXCLUDED.why_relevant,
			why_not_relevant = EXCLUDED.why_not_relevant,
			relevance_score = EXCLUDED.relevance_score,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + linkColumns

	var saved models.CategoryOutletLink
	err := r.db.QueryRowContext(ctx, query,
		link.CampaignID,
		link.CategoryID,
		link.OutletID,
		link.WhyRelevant,
		link.WhyNotRelevant,
		link.RelevanceScore,
		time.Now(),
	).Scan(
		&saved.CampaignID,
		&saved.CategoryID,
		&saved.OutletID,
		&saved.WhyRelevant,
		&saved.WhyNotRelevant,
		&saved.RelevanceScore,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("upsert category link: %w", err)
	}

	return &saved, nil
}

// ListLinks returns the links for a category, highest relevance first.
func (r *CategoryRepository) ListLinks(ctx context.Context, categoryID string) ([]models.CategoryOutletLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM category_outlets
		WHERE category_id = $1
		ORDER BY relevance_score DESC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query category links: %w", err)
	}
	defer rows.Close()

	links := make([]models.CategoryOutletLink, 0)
	for rows.Next() {
		var link models.CategoryOutletLink
		if scanErr := rows.Scan(
			&link.CampaignID,
			&link.CategoryID,
			&link.OutletID,
			&link.WhyRelevant,
			&link.WhyNotRelevant,
			&link.RelevanceScore,
			&link.CreatedAt,
			&link.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan category link: %w", scanErr)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category links: %w", err)
	}

	return links, nil
}

func scopeArg(scope *models.CategoryScope) any {
	if scope == nil {
		return nil
	}
	return string(*scope)
}

func scanCategoryRow(row rowScanner) (*models.Category, error) {
	var category models.Category
	var scope, region, exampleOutlets sql.NullString

	if err := row.Scan(
		&category.ID,
		&category.CampaignID,
		&category.Name,
		&scope,
		&region,
		&exampleOutlets,
		&category.WhyRelevant,
		&category.WhyNotRelevant,
		&category.RelevanceScore,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if scope.Valid {
		s := models.CategoryScope(scope.String)
		category.Scope = &s
	}
	if region.Valid {
		category.Region = &region.String
	}
	if exampleOutlets.Valid {
		category.ExampleOutlets = &exampleOutlets.String
	}

	return &category, nil
}
