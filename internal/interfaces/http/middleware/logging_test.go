package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/testutil"
)

func loggedRouter(logger logging.Logger, cfg LoggingConfig, status int) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogging(logger, nil, cfg))
	r.Get("/api/v1/risks", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("[]"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func fieldValue(msg testutil.LogMessage, key string) (interface{}, bool) {
	for _, f := range msg.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusServiceUnavailable, "error"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger := testutil.NewMockLogger()
			w := httptest.NewRecorder()
			loggedRouter(logger, DefaultLoggingConfig(), tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/risks", nil))

			assert.Equal(t, tt.status, w.Code)
			require.Len(t, logger.Messages, 1)
			assert.Equal(t, tt.level, logger.Messages[0].Level)
			route, ok := fieldValue(logger.Messages[0], "route")
			require.True(t, ok)
			assert.Equal(t, "/api/v1/risks", route)
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	w := httptest.NewRecorder()
	loggedRouter(logger, DefaultLoggingConfig(), http.StatusOK).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, logger.Messages)
}

func TestRequestLogging_Slow(t *testing.T) {
	logger := testutil.NewMockLogger()
	cfg := LoggingConfig{SlowThreshold: time.Nanosecond}
	loggedRouter(logger, cfg, http.StatusOK).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/risks", nil))

	require.Len(t, logger.Messages, 1)
	assert.Equal(t, "warn", logger.Messages[0].Level)
	assert.Equal(t, "http request slow", logger.Messages[0].Message)
}

func TestRequestLogging_Unmatched(t *testing.T) {
	logger := testutil.NewMockLogger()
	loggedRouter(logger, DefaultLoggingConfig(), http.StatusOK).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, logger.Messages, 1)
	route, _ := fieldValue(logger.Messages[0], "route")
	assert.Equal(t, "unmatched", route)
}

//Personal.AI order the ending
