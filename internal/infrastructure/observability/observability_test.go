package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext_AddsUserID(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	ctx := WithUserID(context.Background(), "user-1")
	LoggerFromContext(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"user_id":"user-1"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "GET", "/api/deals", 200, time.Millisecond)
		RecordDBMetric(ctx, metrics, "select", time.Millisecond)
		RecordCacheHit(ctx, metrics, "categories")
		RecordCacheMiss(ctx, metrics, "categories")
		RecordHotDealToggle(ctx, metrics, true)
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/", 200, 0)
		RecordCacheHit(ctx, nil, "x")
		RecordHotDealToggle(ctx, nil, false)
	})
}
