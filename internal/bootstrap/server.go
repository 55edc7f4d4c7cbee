package bootstrap

import (
	"github.com/jonesrussell/gopress/internal/api"
	"github.com/jonesrussell/gopress/internal/config"
	"github.com/jonesrussell/gopress/internal/database"
	"github.com/jonesrussell/gopress/internal/events"
	"github.com/jonesrussell/gopress/internal/handlers"
	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/metadata"
	"github.com/jonesrussell/gopress/internal/metrics"
	"github.com/jonesrussell/gopress/internal/repository"
)

// SetupHTTPServer wires repositories, handlers, and metrics into the server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) *api.Server {
	outletRepo := repository.NewOutletRepository(db.DB, log)
	categoryRepo := repository.NewCategoryRepository(db.DB, log)
	ratingRepo := repository.NewRatingRepository(db.DB, log)

	if err := metrics.NewCollector(db.DB, log).Register(); err != nil {
		log.Warn("Failed to register metrics collector", logger.Error(err))
	}

	h := api.Handlers{
		Outlets:    handlers.NewOutletHandler(outletRepo, publisher, log),
		Categories: handlers.NewCategoryHandler(categoryRepo, log),
		Ratings:    handlers.NewRatingHandler(ratingRepo, publisher, log),
		Internal:   handlers.NewInternalHandler(outletRepo, ratingRepo, log),
		Importer:   handlers.NewImportHandler(outletRepo, metadata.NewExtractor(log), log),
	}

	router := api.NewRouter(cfg, h, log)
	return api.NewServer(cfg, router, log)
}
