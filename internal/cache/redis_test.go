package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/domain"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "cardflow:pipeline:p1:latest", Key("p1"))
}

// Интеграционный тест: запускается, только если задан CARDFLOW_TEST_REDIS_URL.
func TestLatestCache_Redis(t *testing.T) {
	url := os.Getenv("CARDFLOW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CARDFLOW_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	c := New(Config{Client: client, TTL: time.Minute})
	pipelineID := "test-" + uuid.NewString()
	defer c.Invalidate(ctx, pipelineID)

	_, err = c.GetLatest(ctx, pipelineID)
	assert.ErrorIs(t, err, ErrCacheMiss)

	exec := domain.NewPipelineExecution(pipelineID)
	exec.MarkCompleted([]domain.ExecutionResult{{
		CardID:  "c1",
		Outputs: map[string][]domain.Value{"numbers": {domain.Number(4)}},
	}})
	require.NoError(t, c.SetLatest(ctx, exec))

	got, err := c.GetLatest(ctx, pipelineID)
	require.NoError(t, err)
	assert.Equal(t, exec.ID, got.ID)
	assert.Equal(t, domain.ExecutionCompleted, got.Status)
	require.Len(t, got.Results, 1)
	assert.True(t, got.Results[0].Outputs["numbers"][0].Equal(domain.Number(4)))
}
