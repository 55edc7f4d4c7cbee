package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

type RatingRepository struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

func NewRatingRepository(db *sql.DB, log logger.Logger) *RatingRepository {
	return &RatingRepository{
		db:     db,
		logger: log,
		now:    time.Now,
	}
}

// RecordMeasurement appends a measurement and links it to the outlet, as
// one transaction. Records are immutable; this is always an insert.
// ErrNotFound when the outlet does not exist.
func (r *RatingRepository) RecordMeasurement(ctx context.Context, m *models.RatingMeasurement) (recordID int64, err error) {
	if err = m.Validate(); err != nil {
		return 0, err
	}
	if m.CapturedAt.IsZero() {
		m.CapturedAt = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
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

	insertRecord := `
		INSERT INTO domain_rating_records (
			url_input, domain, captured_at, data_type, raw_data,
			domain_rating, url_rating, backlinks, refdomains,
			dofollow_backlinks, dofollow_refdomains,
			traffic_monthly_avg, traffic_cost_monthly_avg, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var rawData any
	if m.RawData != nil {
		rawData = []byte(m.RawData)
	}

	err = tx.QueryRowContext(ctx,
		insertRecord,
		m.URLInput,
		m.Domain,
		m.CapturedAt,
		string(m.DataType),
		rawData,
		m.DomainRating,
		m.URLRating,
		m.Backlinks,
		m.Refdomains,
		m.DofollowBacklinks,
		m.DofollowRefdomains,
		m.TrafficMonthlyAvg,
		m.TrafficCostMonthlyAvg,
		r.now(),
	).Scan(&recordID)
	if err != nil {
		err = fmt.Errorf("insert rating record: %w", err)
		return 0, err
	}

	insertLink := `
		INSERT INTO outlet_rating_records (outlet_id, record_id, created_at)
		VALUES ($1, $2, $3)`

	if _, err = tx.ExecContext(ctx, insertLink, m.OutletID, recordID, r.now()); err != nil {
		if isForeignKeyViolation(err) {
			err = ErrNotFound
			return 0, err
		}
		err = fmt.Errorf("link rating record: %w", err)
		return 0, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return 0, err
	}

	r.logger.Info("rating recorded",
		logger.String("outlet_id", m.OutletID),
		logger.Int64("record_id", recordID),
		logger.String("data_type", string(m.DataType)),
	)

	return recordID, nil
}
