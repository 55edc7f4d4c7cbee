package metrics

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gopress/internal/logger"
)

func TestCollector_Collect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM press_outlets").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("none", 12).
			AddRow("to_delete", 3))
	mock.ExpectQuery("SELECT (.+) FROM campaign_outlets").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("open", 9))
	mock.ExpectQuery("SELECT (.+) FROM domain_rating_records").
		WillReturnRows(sqlmock.NewRows([]string{"data_type", "count"}).
			AddRow("authority", 40))

	collector := NewCollector(db, logger.NewNopLogger())

	ch := make(chan prometheus.Metric, 16)
	collector.Collect(ch)
	close(ch)

	var metrics []prometheus.Metric
	for m := range ch {
		metrics = append(metrics, m)
	}

	assert.Len(t, metrics, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollector_Describe(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	collector := NewCollector(db, logger.NewNopLogger())

	ch := make(chan *prometheus.Desc, 8)
	collector.Describe(ch)
	close(ch)

	var descs []*prometheus.Desc
	for d := range ch {
		descs = append(descs, d)
	}
	assert.Len(t, descs, 3)
}
