package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

func newMockRatingRepo(t *testing.T) (*RatingRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewRatingRepository(db, logger.NewNopLogger())
	return repo, mock, func() { db.Close() }
}

func floatPtr(f float64) *float64 { return &f }

func validMeasurement() *models.RatingMeasurement {
	return &models.RatingMeasurement{
		OutletID:     "outlet-1",
		URLInput:     "https://dailypress.example",
		Domain:       "dailypress.example",
		CapturedAt:   time.Now(),
		DataType:     models.MeasurementAuthority,
		DomainRating: floatPtr(42),
	}
}

func TestRatingRepository_RecordMeasurement(t *testing.T) {
	repo, mock, cleanup := newMockRatingRepo(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("record and link inserted in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO domain_rating_records").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectExec("INSERT INTO outlet_rating_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		recordID, err := repo.RecordMeasurement(ctx, validMeasurement())
		require.NoError(t, err)
		assert.Equal(t, int64(7), recordID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown outlet rolls back and returns ErrNotFound", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO domain_rating_records").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
		mock.ExpectExec("INSERT INTO outlet_rating_records").
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation})
		mock.ExpectRollback()

		_, err := repo.RecordMeasurement(ctx, validMeasurement())
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid type issues no SQL", func(t *testing.T) {
		m := validMeasurement()
		m.DataType = "guesswork"

		_, err := repo.RecordMeasurement(ctx, m)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
