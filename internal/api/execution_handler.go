package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Cardflow/internal/cache"
	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/pipelinefile"
	"github.com/shaiso/Cardflow/internal/repo"
)

const maxListLimit = 100

// CreateExecution выполняет pipeline синхронно и возвращает запуск.
// POST /api/v1/executions
func (h *Handler) CreateExecution(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodeExecuteRequest(w, r)
	if !ok {
		return
	}

	exec, err := h.runner.Run(r.Context(), p, nil)
	if err != nil {
		if errors.Is(err, engine.ErrCircularDependency) {
			CircularDependency(w, err.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, exec)
}

// QueueExecution ставит pipeline в очередь worker'ов.
// POST /api/v1/executions/queue
func (h *Handler) QueueExecution(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		Unavailable(w, "execution queue is not configured")
		return
	}

	p, ok := h.decodeExecuteRequest(w, r)
	if !ok {
		return
	}

	messageID, err := h.queue.PublishExecutionRequested(r.Context(), p)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	JSON(w, http.StatusAccepted, DataResponse{Data: QueuedResponse{
		MessageID:  messageID,
		PipelineID: p.ID,
	}})
}

// GetExecution возвращает запуск из истории.
// GET /api/v1/executions/{id}
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "execution history is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid execution id")
		return
	}

	exec, err := h.history.GetByID(r.Context(), id)
	if HandleLookupError(w, h.logger, err, "execution not found") {
		return
	}

	Success(w, exec)
}

// ListPipelineExecutions возвращает последние запуски pipeline, новые первыми.
// GET /api/v1/pipelines/{id}/executions?limit=...
func (h *Handler) ListPipelineExecutions(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "execution history is not configured")
		return
	}

	limit := repo.DefaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxListLimit {
			BadRequest(w, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	execs, err := h.history.ListByPipeline(r.Context(), r.PathValue("id"), limit)
	if HandleLookupError(w, h.logger, err, "") {
		return
	}

	result := make([]ExecutionSummary, len(execs))
	for i, e := range execs {
		result[i] = ExecutionSummaryFromDomain(e)
	}

	List(w, result, len(result))
}

// GetLatestExecution возвращает последний запуск pipeline.
// Сначала читается кэш, при промахе — история.
// GET /api/v1/pipelines/{id}/executions/latest
func (h *Handler) GetLatestExecution(w http.ResponseWriter, r *http.Request) {
	pipelineID := r.PathValue("id")

	if h.latest != nil {
		exec, err := h.latest.GetLatest(r.Context(), pipelineID)
		if err == nil {
			Success(w, exec)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("latest execution cache failed", "pipeline_id", pipelineID, "error", err)
		}
	}

	if h.history == nil {
		if h.latest == nil {
			Unavailable(w, "execution history is not configured")
			return
		}
		NotFound(w, "no executions for pipeline")
		return
	}

	execs, err := h.history.ListByPipeline(r.Context(), pipelineID, 1)
	if HandleLookupError(w, h.logger, err, "") {
		return
	}
	if len(execs) == 0 {
		NotFound(w, "no executions for pipeline")
		return
	}

	Success(w, execs[0])
}

// decodeExecuteRequest разбирает и проверяет тело запроса на выполнение.
// При ошибке ответ уже отправлен.
func (h *Handler) decodeExecuteRequest(w http.ResponseWriter, r *http.Request) (*domain.Pipeline, bool) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return nil, false
	}

	p, err := h.checkExecuteRequest(&req)
	if err != nil {
		ValidationFailed(w, validationMessage(err))
		return nil, false
	}
	return p, true
}

// checkExecuteRequest проверяет запрос и готовит pipeline к выполнению.
func (h *Handler) checkExecuteRequest(req *ExecuteRequest) (*domain.Pipeline, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := pipelinefile.Prepare(req.Pipeline); err != nil {
		return nil, err
	}
	return req.Pipeline, nil
}
