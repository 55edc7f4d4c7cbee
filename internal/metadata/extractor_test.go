package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(logger.NewNopLogger())
	ctx := context.Background()

	t.Run("prefers og site name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<html><head>
				<title>Some Article Title</title>
				<meta property="og:site_name" content="Daily Press">
				<meta property="og:description" content="Local news daily">
			</head><body></body></html>`))
		}))
		defer server.Close()

		suggestion, err := extractor.Extract(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Daily Press", suggestion.Name)
		assert.Equal(t, "Local news daily", suggestion.Description)
		assert.Equal(t, server.URL, suggestion.URL)
	})

	t.Run("falls back to title then host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<html><head><title>  Weekly Press  </title></head><body></body></html>`))
		}))
		defer server.Close()

		suggestion, err := extractor.Extract(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Weekly Press", suggestion.Name)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := extractor.Extract(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := extractor.Extract(ctx, "not-a-url")
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}
