package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/jonesrussell/gopress/internal/models"
)

// snapshotQuery computes, per outlet that is not soft-deleted, the capture
// time of its latest authority measurement and the rating and capture time
// of its latest measurement with a non-null rating. One query, so the
// classification never sees a torn read.
const snapshotQuery = `
	SELECT o.id, o.name, o.url, o.domain,
	       latest.captured_at,
	       valid.domain_rating,
	       valid.captured_at
	FROM press_outlets o
	LEFT JOIN LATERAL (
		SELECT r.captured_at
		FROM domain_rating_records r
		JOIN outlet_rating_records l ON l.record_id = r.id
		WHERE l.outlet_id = o.id AND r.data_type = 'authority'
		ORDER BY r.captured_at DESC
		LIMIT 1
	) latest ON TRUE
	LEFT JOIN LATERAL (
		SELECT r.domain_rating, r.captured_at
		FROM domain_rating_records r
		JOIN outlet_rating_records l ON l.record_id = r.id
		WHERE l.outlet_id = o.id
		  AND r.data_type = 'authority'
		  AND r.domain_rating IS NOT NULL
		ORDER BY r.captured_at DESC
		LIMIT 1
	) valid ON TRUE
	WHERE o.status IS DISTINCT FROM '` + models.StatusToDelete + `'`

// snapshot classifies every live outlet. The view is derived on every call,
// never materialized.
func (r *RatingRepository) snapshot(ctx context.Context) ([]models.RatingStatus, error) {
	rows, err := r.db.QueryContext(ctx, snapshotQuery)
	if err != nil {
		return nil, fmt.Errorf("query rating snapshot: %w", err)
	}
	defer rows.Close()

	now := r.now()
	statuses := make([]models.RatingStatus, 0)

	for rows.Next() {
		var row models.RatingStatus
		var latestAt, validAt sql.NullTime
		var validRating sql.NullFloat64

		if scanErr := rows.Scan(
			&row.OutletID,
			&row.OutletName,
			&row.OutletURL,
			&row.OutletDomain,
			&latestAt,
			&validRating,
			&validAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan rating snapshot: %w", scanErr)
		}

		if latestAt.Valid {
			row.LatestMeasurementDate = &latestAt.Time
		}
		if validRating.Valid {
			row.LatestValidRating = &validRating.Float64
		}
		if validAt.Valid {
			row.LatestValidRatingDate = &validAt.Time
		}

		label := models.Classify(row.LatestMeasurementDate, row.LatestValidRatingDate, now)
		row.NeedsUpdate = label.NeedsUpdate()
		row.UpdateReason = label.Reason()
		row.HasLowRating = models.IsLowRating(row.LatestValidRating)

		statuses = append(statuses, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating snapshot: %w", err)
	}

	return statuses, nil
}

// ListAll returns every classified outlet, most recently measured first,
// never-measured last.
func (r *RatingRepository) ListAll(ctx context.Context) ([]models.RatingStatus, error) {
	statuses, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		a, b := statuses[i].LatestMeasurementDate, statuses[j].LatestMeasurementDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	return statuses, nil
}

// ListNeedingUpdate returns the outlets whose data calls for a re-fetch,
// most overdue first (never-measured at the top).
func (r *RatingRepository) ListNeedingUpdate(ctx context.Context) ([]models.RatingStatus, error) {
	statuses, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	needing := make([]models.RatingStatus, 0)
	for _, s := range statuses {
		if s.NeedsUpdate {
			needing = append(needing, s)
		}
	}

	sort.SliceStable(needing, func(i, j int) bool {
		a, b := needing[i].LatestMeasurementDate, needing[j].LatestMeasurementDate
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	return needing, nil
}

// ListLowRating returns the outlets whose latest valid rating is below the
// low threshold, ordered by outlet name.
func (r *RatingRepository) ListLowRating(ctx context.Context) ([]models.RatingStatus, error) {
	statuses, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]models.RatingStatus, 0)
	for _, s := range statuses {
		if s.HasLowRating {
			low = append(low, s)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].OutletName < low[j].OutletName
	})

	return low, nil
}

// RollupByCategory aggregates the freshness view over each category's
// linked outlets, optionally filtered to one campaign.
func (r *RatingRepository) RollupByCategory(ctx context.Context, campaignID *string) ([]models.CategoryRatingRollup, error) {
	query := `
		SELECT c.id, c.name, c.campaign_id, l.outlet_id
		FROM press_categories c
		LEFT JOIN category_outlets l ON l.category_id = c.id`
	args := []any{}
	if campaignID != nil {
		query += ` WHERE c.campaign_id = $1`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category links: %w", err)
	}
	defer rows.Close()

	type categoryAgg struct {
		rollup  *models.CategoryRatingRollup
		outlets []string
	}
	order := make([]string, 0)
	byCategory := make(map[string]*categoryAgg)

	for rows.Next() {
		var id, name, campaign string
		var outletID sql.NullString
		if scanErr := rows.Scan(&id, &name, &campaign, &outletID); scanErr != nil {
			return nil, fmt.Errorf("scan category link: %w", scanErr)
		}

		agg, ok := byCategory[id]
		if !ok {
			agg = &categoryAgg{rollup: &models.CategoryRatingRollup{
				CategoryID:   id,
				CategoryName: name,
				CampaignID:   campaign,
			}}
			byCategory[id] = agg
			order = append(order, id)
		}
		if outletID.Valid {
			agg.outlets = append(agg.outlets, outletID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category links: %w", err)
	}

	statuses, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	byOutlet := make(map[string]models.RatingStatus, len(statuses))
	for _, s := range statuses {
		byOutlet[s.OutletID] = s
	}

	rollups := make([]models.CategoryRatingRollup, 0, len(order))
	for _, id := range order {
		agg := byCategory[id]
		var ratingSum float64

		for _, outletID := range agg.outlets {
			status, ok := byOutlet[outletID]
			if !ok {
				// soft-deleted outlets stay out of the rollup
				continue
			}
			agg.rollup.OutletCount++
			if status.LatestValidRating != nil {
				agg.rollup.WithValidRating++
				ratingSum += *status.LatestValidRating
			}
			if status.HasLowRating {
				agg.rollup.WithLowRating++
			}
			if status.NeedsUpdate {
				agg.rollup.NeedingUpdate++
			}
		}

		if agg.rollup.WithValidRating > 0 {
			avg := math.Round(ratingSum/float64(agg.rollup.WithValidRating)*10) / 10
			agg.rollup.AvgDomainRating = &avg
		}

		rollups = append(rollups, *agg.rollup)
	}

	return rollups, nil
}
