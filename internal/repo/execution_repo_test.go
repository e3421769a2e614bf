package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/domain"
)

func TestNewPool_EmptyDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	require.NotNil(t, nullString("x"))
	assert.Equal(t, "x", *nullString("x"))
}

// Интеграционный тест: запускается, только если задан CARDFLOW_TEST_DB_URL.
func TestExecutionRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("CARDFLOW_TEST_DB_URL")
	if dsn == "" {
		t.Skip("CARDFLOW_TEST_DB_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, Migrate(ctx, pool))

	r := NewExecutionRepo(pool)
	pipelineID := "test-" + uuid.NewString()

	exec := domain.NewPipelineExecution(pipelineID)
	require.NoError(t, r.Save(ctx, exec))

	// Повторный Save обновляет статус и результаты
	exec.MarkCompleted([]domain.ExecutionResult{{
		CardID:  "c1",
		Outputs: map[string][]domain.Value{"numbers": {domain.Number(1)}},
	}})
	require.NoError(t, r.Save(ctx, exec))

	got, err := r.GetByID(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, got.Status)
	require.Len(t, got.Results, 1)
	assert.NotNil(t, got.EndTime)

	list, err := r.ListByPipeline(ctx, pipelineID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = r.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
