package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/cache"
	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/repo"
	"github.com/shaiso/Cardflow/internal/runner"
)

// --- fakes ---

type fakeHistory struct {
	execs []domain.PipelineExecution
}

func (f *fakeHistory) Save(_ context.Context, exec *domain.PipelineExecution) error {
	f.execs = append([]domain.PipelineExecution{*exec}, f.execs...)
	return nil
}

func (f *fakeHistory) GetByID(_ context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	for i := range f.execs {
		if f.execs[i].ID == id {
			return &f.execs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeHistory) ListByPipeline(_ context.Context, pipelineID string, limit int) ([]domain.PipelineExecution, error) {
	out := make([]domain.PipelineExecution, 0)
	for _, e := range f.execs {
		if e.PipelineID == pipelineID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLatest map[string]*domain.PipelineExecution

func (f fakeLatest) GetLatest(_ context.Context, pipelineID string) (*domain.PipelineExecution, error) {
	if exec, ok := f[pipelineID]; ok {
		return exec, nil
	}
	return nil, cache.ErrCacheMiss
}

type fakeQueue struct {
	published []*domain.Pipeline
}

func (f *fakeQueue) PublishExecutionRequested(_ context.Context, p *domain.Pipeline) (string, error) {
	f.published = append(f.published, p)
	return "msg-1", nil
}

// --- helpers ---

type testEnv struct {
	mux     *http.ServeMux
	history *fakeHistory
	queue   *fakeQueue
	latest  fakeLatest
}

func newTestEnv(t *testing.T, withStorage bool) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{mux: http.NewServeMux()}

	runCfg := runner.Config{
		Engine: engine.New(engine.Config{
			Definitions: catalog.Default(),
			Executors:   executors.Default(executors.Config{}),
			Logger:      logger,
		}),
		Logger: logger,
	}
	cfg := Config{Catalog: catalog.Default(), Logger: logger}

	if withStorage {
		env.history = &fakeHistory{}
		env.queue = &fakeQueue{}
		env.latest = fakeLatest{}
		runCfg.History = env.history
		cfg.History = env.history
		cfg.Queue = env.queue
		cfg.Latest = env.latest
	}
	cfg.Runner = runner.New(runCfg)

	NewHandler(cfg).RegisterRoutes(env.mux)
	return env
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
	Error ErrorDetail     `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func addCard(t *testing.T, p *domain.Pipeline, defID string) *domain.Card {
	t.Helper()
	def, ok := catalog.Default().Definition(defID)
	require.True(t, ok, defID)
	c := p.AddCard(*domain.NewCard(def, domain.Position{}))
	return p.Card(c.ID)
}

func numbersPipeline(t *testing.T) *domain.Pipeline {
	t.Helper()

	p := domain.NewPipeline("numbers", "")
	gen := addCard(t, p, "number-generator")
	genID, genOut := gen.ID, gen.OutputPorts[0].ID
	require.NoError(t, p.SetProperty(genID, "count", domain.Number(3)))

	printer := addCard(t, p, "print-array")
	_, err := p.Connect(genID, genOut, printer.ID, printer.InputPorts[0].ID)
	require.NoError(t, err)
	return p
}

func cyclicPipeline(t *testing.T) *domain.Pipeline {
	t.Helper()

	p := domain.NewPipeline("loop", "")
	a := addCard(t, p, "print-array")
	aID, aIn, aOut := a.ID, a.InputPorts[0].ID, a.OutputPorts[0].ID
	b := addCard(t, p, "print-array")
	bID, bIn, bOut := b.ID, b.InputPorts[0].ID, b.OutputPorts[0].ID

	_, err := p.Connect(aID, aOut, bID, bIn)
	require.NoError(t, err)
	_, err = p.Connect(bID, bOut, aID, aIn)
	require.NoError(t, err)
	return p
}

// --- cards ---

func TestListCards(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodGet, "/api/v1/cards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, body.Total)

	var defs []domain.CardDefinition
	require.NoError(t, json.Unmarshal(body.Data, &defs))
	assert.Len(t, defs, 10)
}

func TestGetCard(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodGet, "/api/v1/cards/filter", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var def domain.CardDefinition
	require.NoError(t, json.Unmarshal(body.Data, &def))
	assert.Equal(t, "filterGenerator", def.Executor)

	rec, body = env.do(t, http.MethodGet, "/api/v1/cards/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, body.Error.Code)
}

func TestCreateCardInstance(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodPost, "/api/v1/cards/number-generator/instances",
		CreateCardRequest{Position: domain.Position{X: 40, Y: 80}, Name: "Numbers"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var card domain.Card
	require.NoError(t, json.Unmarshal(body.Data, &card))
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "number-generator", card.DefinitionID)
	assert.Equal(t, "Numbers", card.Name)
	assert.Equal(t, 40.0, card.Position.X)

	// Тело опционально
	rec, _ = env.do(t, http.MethodPost, "/api/v1/cards/filter/instances", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/cards/filter/instances",
		CreateCardRequest{Name: strings.Repeat("x", 201)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, body.Error.Code)
}

// --- executions ---

func TestCreateExecution(t *testing.T) {
	env := newTestEnv(t, true)
	p := numbersPipeline(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: p})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var exec domain.PipelineExecution
	require.NoError(t, json.Unmarshal(body.Data, &exec))
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	require.Len(t, exec.Results, 2)
	assert.Len(t, exec.Results[0].Outputs["numbers"], 3)
	assert.Len(t, exec.Results[1].Outputs["printed"], 3)

	// Запуск попал в историю
	require.Len(t, env.history.execs, 1)
	assert.Equal(t, exec.ID, env.history.execs[0].ID)
}

func TestCreateExecution_Cycle(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: cyclicPipeline(t)})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrCodeCircularDependency, body.Error.Code)
	assert.Contains(t, body.Error.Message, "circular dependency")
}

func TestCreateExecution_BadRequests(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodPost, "/api/v1/executions", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeBadRequest, body.Error.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/executions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Message, "Pipeline")

	p := numbersPipeline(t)
	p.Connections[0].TargetCardID = ""
	rec, body = env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: p})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, body.Error.Code)
}

func TestQueueExecution(t *testing.T) {
	env := newTestEnv(t, true)
	p := numbersPipeline(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/executions/queue", ExecuteRequest{Pipeline: p})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var queued QueuedResponse
	require.NoError(t, json.Unmarshal(body.Data, &queued))
	assert.Equal(t, "msg-1", queued.MessageID)
	assert.Equal(t, p.ID, queued.PipelineID)
	require.Len(t, env.queue.published, 1)

	// Без очереди — 503
	rec, body = newTestEnv(t, false).do(t, http.MethodPost, "/api/v1/executions/queue", ExecuteRequest{Pipeline: p})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrCodeServiceUnavailable, body.Error.Code)
}

func TestGetExecution(t *testing.T) {
	env := newTestEnv(t, true)
	p := numbersPipeline(t)
	_, body := env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: p})

	var created domain.PipelineExecution
	require.NoError(t, json.Unmarshal(body.Data, &created))

	rec, body := env.do(t, http.MethodGet, "/api/v1/executions/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.PipelineExecution
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, created.ID, got.ID)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/executions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/executions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = newTestEnv(t, false).do(t, http.MethodGet, "/api/v1/executions/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListPipelineExecutions(t *testing.T) {
	env := newTestEnv(t, true)
	p := numbersPipeline(t)
	for i := 0; i < 3; i++ {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: p})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := env.do(t, http.MethodGet, "/api/v1/pipelines/"+p.ID+"/executions?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, body.Total)

	var list []ExecutionSummary
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Cards)
	assert.Equal(t, domain.ExecutionCompleted, list[0].Status)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/pipelines/"+p.ID+"/executions?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLatestExecution(t *testing.T) {
	env := newTestEnv(t, true)
	p := numbersPipeline(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/pipelines/"+p.ID+"/executions/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Промах кэша — ответ из истории
	_, body := env.do(t, http.MethodPost, "/api/v1/executions", ExecuteRequest{Pipeline: p})
	var fromHistory domain.PipelineExecution
	require.NoError(t, json.Unmarshal(body.Data, &fromHistory))

	rec, body = env.do(t, http.MethodGet, "/api/v1/pipelines/"+p.ID+"/executions/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.PipelineExecution
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, fromHistory.ID, got.ID)

	// Попадание в кэш
	cached := domain.NewPipelineExecution(p.ID)
	env.latest[p.ID] = cached
	rec, body = env.do(t, http.MethodGet, "/api/v1/pipelines/"+p.ID+"/executions/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, cached.ID, got.ID)
}

// --- stream ---

func TestStreamExecution(t *testing.T) {
	env := newTestEnv(t, false)
	server := httptest.NewServer(env.mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/executions/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	p := numbersPipeline(t)
	require.NoError(t, conn.WriteJSON(ExecuteRequest{Pipeline: p}))

	var messages []StreamMessage
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		messages = append(messages, msg)
	}

	require.Len(t, messages, 3)
	assert.Equal(t, StreamCard, messages[0].Type)
	assert.Equal(t, p.Cards[0].ID, messages[0].Result.CardID)
	assert.Equal(t, StreamCard, messages[1].Type)
	assert.Equal(t, StreamExecution, messages[2].Type)
	require.NotNil(t, messages[2].Execution)
	assert.Len(t, messages[2].Execution.Results, 2)
}

func TestStreamExecution_Cycle(t *testing.T) {
	env := newTestEnv(t, false)
	server := httptest.NewServer(env.mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/executions/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ExecuteRequest{Pipeline: cyclicPipeline(t)}))

	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, StreamError, msg.Type)
	require.NotNil(t, msg.Error)
	assert.Equal(t, ErrCodeCircularDependency, msg.Error.Code)
	require.NotNil(t, msg.Execution)
	assert.Equal(t, domain.ExecutionError, msg.Execution.Status)
}
