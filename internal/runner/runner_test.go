package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

// recorder — фейк History/LatestCache/Events, запоминающий вызовы.
type recorder struct {
	mu     sync.Mutex
	saved  []*domain.PipelineExecution
	cached []*domain.PipelineExecution
	events []*domain.PipelineExecution
	err    error
}

func (r *recorder) Save(_ context.Context, exec *domain.PipelineExecution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, exec)
	return r.err
}

func (r *recorder) SetLatest(_ context.Context, exec *domain.PipelineExecution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = append(r.cached, exec)
	return r.err
}

func (r *recorder) PublishExecutionCompleted(_ context.Context, exec *domain.PipelineExecution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, exec)
	return r.err
}

func newTestRunner(t *testing.T, rec *recorder) *Runner {
	t.Helper()

	cat := catalog.Default()
	eng := engine.New(engine.Config{
		Definitions: cat,
		Executors:   executors.Default(executors.Config{}),
	})

	cfg := Config{
		Engine:  eng,
		Metrics: telemetry.NewMetrics(prometheus.NewRegistry()),
	}
	if rec != nil {
		cfg.History = rec
		cfg.Cache = rec
		cfg.Events = rec
	}
	return New(cfg)
}

// numbersIntoFilter строит pipeline number-generator → filter (value > 10).
func numbersIntoFilter(t *testing.T) *domain.Pipeline {
	t.Helper()

	cat := catalog.Default()
	genDef, ok := cat.Definition("number-generator")
	require.True(t, ok)
	filterDef, ok := cat.Definition("filter")
	require.True(t, ok)

	p := domain.NewPipeline("numbers", "")
	gen := p.AddCard(*domain.NewCard(genDef, domain.Position{}))
	genID, genOut := gen.ID, gen.OutputPorts[0].ID
	require.NoError(t, p.SetProperty(genID, "count", domain.Number(3)))

	filter := p.AddCard(*domain.NewCard(filterDef, domain.Position{X: 300}))
	require.NoError(t, p.SetProperty(filter.ID, "field", domain.String("value")))
	require.NoError(t, p.SetProperty(filter.ID, "operator", domain.String("greater")))
	require.NoError(t, p.SetProperty(filter.ID, "value", domain.Number(10)))

	_, err := p.Connect(genID, genOut, filter.ID, filter.InputPorts[0].ID)
	require.NoError(t, err)
	return p
}

func TestRun_Completed(t *testing.T) {
	rec := &recorder{}
	r := newTestRunner(t, rec)
	p := numbersIntoFilter(t)

	var observed []string
	exec, err := r.Run(context.Background(), p, func(card *domain.Card, _ domain.ExecutionResult) {
		observed = append(observed, card.DefinitionID)
	})
	require.NoError(t, err)

	assert.Equal(t, p.ID, exec.PipelineID)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	require.NotNil(t, exec.EndTime)
	require.Len(t, exec.Results, 2)
	assert.Equal(t, []string{"number-generator", "filter"}, observed)

	numbers := exec.Results[0].Outputs["numbers"]
	assert.Len(t, numbers, 3)

	// filtered — подпоследовательность numbers, где значение > 10
	var want []domain.Value
	for _, n := range numbers {
		if v, _ := n.AsNumber(); v > 10 {
			want = append(want, n)
		}
	}
	filtered, ok := exec.Results[1].Outputs["filtered"]
	require.True(t, ok)
	require.Len(t, filtered, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(filtered[i]))
	}

	// Итог ушёл во все приёмники
	assert.Len(t, rec.saved, 1)
	assert.Len(t, rec.cached, 1)
	assert.Len(t, rec.events, 1)
	assert.Same(t, exec, rec.saved[0])
}

func TestRun_Cycle(t *testing.T) {
	rec := &recorder{}
	r := newTestRunner(t, rec)

	cat := catalog.Default()
	def, _ := cat.Definition("print-array")

	p := domain.NewPipeline("loop", "")
	a := p.AddCard(*domain.NewCard(def, domain.Position{}))
	aID, aIn, aOut := a.ID, a.InputPorts[0].ID, a.OutputPorts[0].ID
	b := p.AddCard(*domain.NewCard(def, domain.Position{}))
	bID, bIn, bOut := b.ID, b.InputPorts[0].ID, b.OutputPorts[0].ID

	_, err := p.Connect(aID, aOut, bID, bIn)
	require.NoError(t, err)
	_, err = p.Connect(bID, bOut, aID, aIn)
	require.NoError(t, err)

	exec, err := r.Run(context.Background(), p, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrCircularDependency)

	require.NotNil(t, exec)
	assert.Equal(t, domain.ExecutionError, exec.Status)
	assert.Empty(t, exec.Results)
	assert.Contains(t, exec.Error, "circular dependency")

	// Неудачный запуск тоже фиксируется
	assert.Len(t, rec.saved, 1)
	assert.Len(t, rec.events, 1)
}

func TestRun_SinkErrorsAreNotFatal(t *testing.T) {
	rec := &recorder{err: errors.New("storage down")}
	r := newTestRunner(t, rec)

	exec, err := r.Run(context.Background(), numbersIntoFilter(t), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	assert.Len(t, rec.saved, 1)
}

func TestRun_WithoutSinks(t *testing.T) {
	r := newTestRunner(t, nil)

	exec, err := r.Run(context.Background(), domain.NewPipeline("empty", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	assert.Empty(t, exec.Results)
}

func TestRun_NilPipeline(t *testing.T) {
	r := newTestRunner(t, nil)

	_, err := r.Run(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilPipeline)
}
