// Package metrics exposes Prometheus metrics derived from the database.
package metrics

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/gopress/internal/logger"
)

var (
	outletTotalDesc = prometheus.NewDesc(
		"gopress_outlets_total",
		"Total press outlets by status",
		[]string{"status"},
		nil,
	)
	ledgerTotalDesc = prometheus.NewDesc(
		"gopress_ledger_entries_total",
		"Total campaign-outlet relevance entries by status",
		[]string{"status"},
		nil,
	)
	ratingRecordsDesc = prometheus.NewDesc(
		"gopress_rating_records_total",
		"Total domain-rating records by data type",
		[]string{"data_type"},
		nil,
	)
)

// Collector is a custom Prometheus collector that reads entity counts from
// the database on each scrape.
type Collector struct {
	db  *sql.DB
	log logger.Logger
}

// NewCollector creates a collector backed by the given database.
func NewCollector(db *sql.DB, log logger.Logger) *Collector {
	return &Collector{db: db, log: log}
}

// Register registers the collector with the default registry.
func (c *Collector) Register() error {
	return prometheus.Register(c)
}

// Describe sends the metric descriptors to the channel.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- outletTotalDesc
	ch <- ledgerTotalDesc
	ch <- ratingRecordsDesc
}

// Collect queries the database for entity counts and emits them as gauges.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	c.collectGrouped(ctx, ch, outletTotalDesc,
		`SELECT COALESCE(status, 'none'), COUNT(*) FROM press_outlets GROUP BY status`)
	c.collectGrouped(ctx, ch, ledgerTotalDesc,
		`SELECT status::text, COUNT(*) FROM campaign_outlets GROUP BY status`)
	c.collectGrouped(ctx, ch, ratingRecordsDesc,
		`SELECT data_type, COUNT(*) FROM domain_rating_records GROUP BY data_type`)
}

func (c *Collector) collectGrouped(ctx context.Context, ch chan<- prometheus.Metric, desc *prometheus.Desc, query string) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		c.log.Error("failed to collect metrics", logger.Error(err))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count float64
		if err := rows.Scan(&label, &count); err != nil {
			c.log.Error("failed to scan metric row", logger.Error(err))
			return
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, count, label)
	}
	if err := rows.Err(); err != nil {
		c.log.Error("failed to iterate metric rows", logger.Error(err))
	}
}
