package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/navstack/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestServe_StopsWithContext(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv(config.EnvHTTPAddr, "127.0.0.1:0")
	t.Setenv(config.EnvRedisURL, "redis://"+mr.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, Serve(ctx, RunOptions{}))
}

func TestServe_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	t.Setenv(config.EnvRedisURL, "redis://"+addr)

	err := Serve(context.Background(), RunOptions{})
	assert.ErrorContains(t, err, "redis ping failed")
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), RunOptions{}, "carrier-pigeon", "")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestServeMCP_SSEStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, ServeMCP(ctx, RunOptions{}, TransportSSE, "127.0.0.1:0"))
}
