package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

const (
	minBulkEntries = 1
	maxBulkEntries = 500
)

const ledgerColumns = `
	campaign_id, outlet_id, why_relevant, why_not_relevant, relevance_score,
	status, overall_relevance, relevance_rationale, started_at, ended_at,
	created_at, updated_at`

// UpdateStatus transitions a ledger entry's status. A non-nil reason
// overwrites the stored rationale; a nil reason preserves it. Setting
// status to "ended" stamps ended_at; any other status leaves it as stored.
func (r *OutletRepository) UpdateStatus(
	ctx context.Context,
	outletID, campaignID string,
	status models.RelevanceStatus,
	reason *string,
) (*models.CampaignOutlet, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "must be one of open, ended, denied")
	}

	query := `
		UPDATE campaign_outlets
		SET status = $3,
		    relevance_rationale = COALESCE($4, relevance_rationale),
		    ended_at = CASE WHEN $3 = 'ended' THEN $5 ELSE ended_at END,
		    updated_at = $5
		WHERE campaign_id = $2 AND outlet_id = $1
		RETURNING ` + ledgerColumns

	row := r.db.QueryRowContext(ctx, query,
		outletID,
		campaignID,
		string(status),
		reason,
		time.Now(),
	)

	entry, err := scanLedgerRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update ledger status: %w", err)
	}

	r.logger.Info("ledger status updated",
		logger.String("outlet_id", outletID),
		logger.String("campaign_id", campaignID),
		logger.String("status", string(status)),
	)

	return entry, nil
}

// BulkUpsert processes up to 500 entries as one transaction. Every entry is
// validated before the first write; any failure rolls back the whole batch.
func (r *OutletRepository) BulkUpsert(
	ctx context.Context,
	entries []models.RelevanceUpsert,
) (results []models.BulkUpsertResult, err error) {
	if len(entries) < minBulkEntries || len(entries) > maxBulkEntries {
		return nil, models.NewValidationError("entries",
			fmt.Sprintf("batch size must be in [%d,%d], got %d", minBulkEntries, maxBulkEntries, len(entries)))
	}

	for i := range entries {
		if validateErr := entries[i].Validate(); validateErr != nil {
			return nil, fmt.Errorf("entry %d: %w", i, validateErr)
		}
		entries[i].Normalize()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
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

	results = make([]models.BulkUpsertResult, 0, len(entries))
	for i := range entries {
		outlet, upsertErr := upsertOutletTx(ctx, tx, &entries[i])
		if upsertErr != nil {
			err = fmt.Errorf("entry %d: %w", i, upsertErr)
			return nil, err
		}

		if _, upsertErr = upsertLedgerTx(ctx, tx, outlet.ID, &entries[i]); upsertErr != nil {
			err = fmt.Errorf("entry %d: %w", i, upsertErr)
			return nil, err
		}

		results = append(results, models.BulkUpsertResult{
			OutletID:   outlet.ID,
			Name:       outlet.Name,
			URL:        outlet.URL,
			CampaignID: entries[i].CampaignID,
		})
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return nil, err
	}

	r.logger.Info("bulk upsert committed", logger.Int("entries", len(entries)))

	return results, nil
}

// ListByCampaign returns the campaign's ledger entries joined with their
// outlets, highest relevance first.
func (r *OutletRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.OutletRelevance, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM campaign_outlets co
		JOIN press_outlets o ON o.id = co.outlet_id
		WHERE co.campaign_id = $1
		ORDER BY co.relevance_score DESC`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query campaign outlets: %w", err)
	}
	defer rows.Close()

	return scanJoinedRows(rows)
}

func scanLedgerRow(row rowScanner) (*models.CampaignOutlet, error) {
	var entry models.CampaignOutlet
	var overallRelevance, rationale sql.NullString
	var startedAt, endedAt sql.NullTime

	if err := row.Scan(
		&entry.CampaignID,
		&entry.OutletID,
		&entry.WhyRelevant,
		&entry.WhyNotRelevant,
		&entry.RelevanceScore,
		&entry.Status,
		&overallRelevance,
		&rationale,
		&startedAt,
		&endedAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if overallRelevance.Valid {
		entry.OverallRelevance = &overallRelevance.String
	}
	if rationale.Valid {
		entry.RelevanceRationale = &rationale.String
	}
	if startedAt.Valid {
		entry.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		entry.EndedAt = &endedAt.Time
	}

	return &entry, nil
}
