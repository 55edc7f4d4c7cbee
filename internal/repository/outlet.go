// Package repository implements Postgres persistence for outlets, relevance
// judgments, categories, and domain-rating records.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type OutletRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewOutletRepository(db *sql.DB, log logger.Logger) *OutletRepository {
	return &OutletRepository{
		db:     db,
		logger: log,
	}
}

const outletColumns = `id, name, url, domain, status, created_at, updated_at`

// UpsertWithRelevance inserts or merges an outlet by canonical URL and its
// ledger entry for the campaign, as one transaction. A failure after the
// outlet write rolls the outlet change back too.
func (r *OutletRepository) UpsertWithRelevance(
	ctx context.Context,
	in *models.RelevanceUpsert,
) (outlet *models.Outlet, entry *models.CampaignOutlet, err error) {
	if err = in.Validate(); err != nil {
		return nil, nil, err
	}
	in.Normalize()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback transaction",
					logger.Error(rbErr),
				)
			}
		}
	}()

	outlet, err = upsertOutletTx(ctx, tx, in)
	if err != nil {
		return nil, nil, err
	}

	entry, err = upsertLedgerTx(ctx, tx, outlet.ID, in)
	if err != nil {
		return nil, nil, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return nil, nil, err
	}

	return outlet, entry, nil
}

// upsertOutletTx inserts or merges an outlet keyed on its canonical URL.
// On conflict, name and domain are overwritten and updated_at refreshed;
// status stays as stored.
func upsertOutletTx(ctx context.Context, tx *sql.Tx, in *models.RelevanceUpsert) (*models.Outlet, error) {
	now := time.Now()

	query := `
		INSERT INTO press_outlets (id, name, url, domain, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			domain = EXCLUDED.domain,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + outletColumns

	var outlet models.Outlet
	var status sql.NullString
	err := tx.QueryRowContext(ctx,
		query,
		uuid.New().String(),
		in.Name,
		in.URL,
		in.Domain,
		now,
	).Scan(
		&outlet.ID,
		&outlet.Name,
		&outlet.URL,
		&outlet.Domain,
		&status,
		&outlet.CreatedAt,
		&outlet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert outlet: %w", err)
	}

	if status.Valid {
		outlet.Status = &status.String
	}

	return &outlet, nil
}

// upsertLedgerTx inserts or merges the relevance judgment keyed on
// (campaign_id, outlet_id). Setting status to "ended" stamps ended_at;
// an existing ended_at is never cleared.
func upsertLedgerTx(
	ctx context.Context,
	tx *sql.Tx,
	outletID string,
	in *models.RelevanceUpsert,
) (*models.CampaignOutlet, error) {
	now := time.Now()

	var endedAt *time.Time
	if in.Status == models.RelevanceEnded {
		endedAt = &now
	}

	query := `
		INSERT INTO campaign_outlets (
			campaign_id, outlet_id, why_relevant, why_not_relevant,
			relevance_score, status, overall_relevance, relevance_rationale,
			ended_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (campaign_id, outlet_id) DO UPDATE SET
			why_relevant = EXCLUDED.why_relevant,
			why_not_relevant = EXCLUDED.why_not_relevant,
			relevance_score = EXCLUDED.relevance_score,
			status = EXCLUDED.status,
			overall_relevance = EXCLUDED.overall_relevance,
			relevance_rationale = EXCLUDED.relevance_rationale,
			ended_at = COALESCE(EXCLUDED.ended_at, campaign_outlets.ended_at),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + ledgerColumns

	row := tx.QueryRowContext(ctx,
		query,
		in.CampaignID,
		outletID,
		in.WhyRelevant,
		in.WhyNotRelevant,
		in.RelevanceScore,
		string(in.Status),
		in.OverallRelevance,
		in.Rationale,
		endedAt,
		now,
	)

	entry, err := scanLedgerRow(row)
	if err != nil {
		return nil, fmt.Errorf("upsert ledger entry: %w", err)
	}

	return entry, nil
}

func (r *OutletRepository) GetByID(ctx context.Context, id string) (*models.Outlet, error) {
	query := `SELECT ` + outletColumns + ` FROM press_outlets WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	outlet, err := scanOutletRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query outlet: %w", err)
	}

	return outlet, nil
}

// OutletUpdate holds the optional fields for a partial outlet update.
type OutletUpdate struct {
	Name   *string
	URL    *string
	Domain *string
}

// UpdateFields applies a partial update. An empty update still refreshes
// updated_at.
func (r *OutletRepository) UpdateFields(ctx context.Context, id string, upd OutletUpdate) (*models.Outlet, error) {
	setClauses := []string{"updated_at = now()"}
	args := []any{id}
	pos := 2

	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", pos))
		args = append(args, *upd.Name)
		pos++
	}
	if upd.URL != nil {
		setClauses = append(setClauses, fmt.Sprintf("url = $%d", pos))
		args = append(args, *upd.URL)
		pos++
	}
	if upd.Domain != nil {
		setClauses = append(setClauses, fmt.Sprintf("domain = $%d", pos))
		args = append(args, *upd.Domain)
	}

	// set clauses use fixed column names; values are parameterized
	query := `UPDATE press_outlets SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING ` + outletColumns

	row := r.db.QueryRowContext(ctx, query, args...)
	outlet, err := scanOutletRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update outlet: %w", err)
	}

	return outlet, nil
}

// OutletFilter holds pagination and filter params for ListByFilter.
type OutletFilter struct {
	CampaignID *string
	Status     *string
	Limit      int
	Offset     int
}

func (f *OutletFilter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

const joinedColumns = `
	o.id, o.name, o.url, o.domain, o.status, o.created_at, o.updated_at,
	co.campaign_id, co.why_relevant, co.why_not_relevant, co.relevance_score,
	co.status, co.overall_relevance, co.relevance_rationale, co.ended_at`

// ListByFilter returns outlets joined with their ledger entries, with the
// total count over the same predicate.
func (r *OutletRepository) ListByFilter(ctx context.Context, filter OutletFilter) ([]models.OutletRelevance, int, error) {
	filter.normalize()
	whereClause, whereArgs := buildOutletWhere(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM press_outlets o
		LEFT JOIN campaign_outlets co ON co.outlet_id = o.id
		WHERE 1=1` + whereClause

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, whereArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count outlets: %w", err)
	}

	argCount := len(whereArgs)
	limitPlaceholder := strconv.Itoa(argCount + 1)
	offsetPlaceholder := strconv.Itoa(argCount + 2)
	// whereClause uses fixed column names; limit/offset are integers
	query := `
		SELECT ` + joinedColumns + `
		FROM press_outlets o
		LEFT JOIN campaign_outlets co ON co.outlet_id = o.id
		WHERE 1=1` + whereClause + `
		ORDER BY o.created_at DESC
		LIMIT $` + limitPlaceholder + ` OFFSET $` + offsetPlaceholder

	args := append(append([]any{}, whereArgs...), filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query outlets: %w", err)
	}
	defer rows.Close()

	results, err := scanJoinedRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func buildOutletWhere(filter OutletFilter) (whereClause string, args []any) {
	var clauses []string
	args = make([]any, 0)
	pos := 1

	if filter.CampaignID != nil {
		clauses = append(clauses, fmt.Sprintf("co.campaign_id = $%d", pos))
		args = append(args, *filter.CampaignID)
		pos++
	}
	if filter.Status != nil {
		clauses = append(clauses, fmt.Sprintf("o.status = $%d", pos))
		args = append(args, *filter.Status)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// Search matches the query case-insensitively against name or url.
func (r *OutletRepository) Search(ctx context.Context, query string, campaignID *string, limit int) ([]models.Outlet, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	args := []any{"%" + query + "%"}
	campaignClause := ""
	if campaignID != nil {
		campaignClause = `
		AND EXISTS (
			SELECT 1 FROM campaign_outlets co
			WHERE co.outlet_id = o.id AND co.campaign_id = $2
		)`
		args = append(args, *campaignID)
	}
	args = append(args, limit)
	limitPlaceholder := strconv.Itoa(len(args))

	sqlQuery := `
		SELECT ` + prefixedOutletColumns + `
		FROM press_outlets o
		WHERE (o.name ILIKE $1 OR o.url ILIKE $1)` + campaignClause + `
		ORDER BY o.name ASC
		LIMIT $` + limitPlaceholder

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search outlets: %w", err)
	}
	defer rows.Close()

	return scanOutletRows(rows)
}

// ByIDs returns the outlets matching the given ids, for internal consumers.
func (r *OutletRepository) ByIDs(ctx context.Context, ids []string) ([]models.Outlet, error) {
	if len(ids) == 0 {
		return []models.Outlet{}, nil
	}

	query := `SELECT ` + outletColumns + ` FROM press_outlets WHERE id = ANY($1) ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query outlets by ids: %w", err)
	}
	defer rows.Close()

	return scanOutletRows(rows)
}

const prefixedOutletColumns = `o.id, o.name, o.url, o.domain, o.status, o.created_at, o.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutletRow(row rowScanner) (*models.Outlet, error) {
	var outlet models.Outlet
	var status sql.NullString

	if err := row.Scan(
		&outlet.ID,
		&outlet.Name,
		&outlet.URL,
		&outlet.Domain,
		&status,
		&outlet.CreatedAt,
		&outlet.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if status.Valid {
		outlet.Status = &status.String
	}
	return &outlet, nil
}

func scanOutletRows(rows *sql.Rows) ([]models.Outlet, error) {
	outlets := make([]models.Outlet, 0)
	for rows.Next() {
		outlet, err := scanOutletRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outlet: %w", err)
		}
		outlets = append(outlets, *outlet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outlets: %w", err)
	}
	return outlets, nil
}

func scanJoinedRows(rows *sql.Rows) ([]models.OutletRelevance, error) {
	results := make([]models.OutletRelevance, 0)
	for rows.Next() {
		var row models.OutletRelevance
		var outletStatus sql.NullString
		var campaignID, whyRelevant, whyNotRelevant sql.NullString
		var relevanceScore sql.NullFloat64
		var relevanceStatus, overallRelevance, rationale sql.NullString
		var endedAt sql.NullTime

		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.URL,
			&row.Domain,
			&outletStatus,
			&row.CreatedAt,
			&row.UpdatedAt,
			&campaignID,
			&whyRelevant,
			&whyNotRelevant,
			&relevanceScore,
			&relevanceStatus,
			&overallRelevance,
			&rationale,
			&endedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outlet row: %w", err)
		}

		if outletStatus.Valid {
			row.Status = &outletStatus.String
		}
		if campaignID.Valid {
			row.CampaignID = &campaignID.String
		}
		if whyRelevant.Valid {
			row.WhyRelevant = &whyRelevant.String
		}
		if whyNotRelevant.Valid {
			row.WhyNotRelevant = &whyNotRelevant.String
		}
		if relevanceScore.Valid {
			row.RelevanceScore = &relevanceScore.Float64
		}
		if relevanceStatus.Valid {
			status := models.RelevanceStatus(relevanceStatus.String)
			row.RelevanceStatus = &status
		}
		if overallRelevance.Valid {
			row.OverallRelevance = &overallRelevance.String
		}
		if rationale.Valid {
			row.RelevanceRationale = &rationale.String
		}
		if endedAt.Valid {
			row.EndedAt = &endedAt.Time
		}

		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outlet rows: %w", err)
	}
	return results, nil
}
