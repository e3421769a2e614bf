package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Cardflow/internal/domain"
)

// DefaultListLimit — размер выборки истории по умолчанию.
const DefaultListLimit = 20

// ExecutionRepo — история запусков pipeline.
type ExecutionRepo struct {
	pool *pgxpool.Pool
}

// NewExecutionRepo создаёт новый ExecutionRepo.
func NewExecutionRepo(pool *pgxpool.Pool) *ExecutionRepo {
	return &ExecutionRepo{pool: pool}
}

const executionColumns = `id, pipeline_id, status, results, error, started_at, finished_at`

// Save сохраняет запуск. Повторное сохранение того же ID обновляет запись.
func (r *ExecutionRepo) Save(ctx context.Context, exec *domain.PipelineExecution) error {
	resultsJSON, err := json.Marshal(exec.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	query := `
		INSERT INTO pipeline_executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    results = EXCLUDED.results,
		    error = EXCLUDED.error,
		    finished_at = EXCLUDED.finished_at
	`
	_, err = r.pool.Exec(ctx, query,
		exec.ID,
		exec.PipelineID,
		exec.Status,
		resultsJSON,
		nullString(exec.Error),
		exec.StartTime,
		exec.EndTime,
	)
	if err != nil {
		return fmt.Errorf("upsert execution: %w", err)
	}
	return nil
}

// GetByID возвращает запуск по ID.
func (r *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM pipeline_executions WHERE id = $1`

	exec, err := scanExecution(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return exec, err
}

// ListByPipeline возвращает последние запуски pipeline, новые первыми.
func (r *ExecutionRepo) ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]domain.PipelineExecution, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT ` + executionColumns + `
		FROM pipeline_executions
		WHERE pipeline_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pipelineID, limit)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	execs := make([]domain.PipelineExecution, 0)
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		execs = append(execs, *exec)
	}
	return execs, rows.Err()
}

// scanExecution сканирует одну строку (pgx.Row или pgx.Rows) в PipelineExecution.
func scanExecution(row pgx.Row) (*domain.PipelineExecution, error) {
	var exec domain.PipelineExecution
	var resultsJSON []byte
	var execError *string

	err := row.Scan(
		&exec.ID,
		&exec.PipelineID,
		&exec.Status,
		&resultsJSON,
		&execError,
		&exec.StartTime,
		&exec.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan execution: %w", err)
	}

	exec.Results = make([]domain.ExecutionResult, 0)
	if resultsJSON != nil {
		if err := json.Unmarshal(resultsJSON, &exec.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
	}
	if execError != nil {
		exec.Error = *execError
	}
	return &exec, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
