package executors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/domain"
)

func people() domain.Value {
	person := func(name string, age float64) domain.Value {
		return domain.Map(map[string]domain.Value{
			"name": domain.String(name),
			"age":  domain.Number(age),
		})
	}
	return domain.List(
		person("Alice", 31),
		person("Bob", 17),
		domain.Map(map[string]domain.Value{"name": domain.String("Carol")}),
		domain.Null(),
	)
}

func names(t *testing.T, v domain.Value) []string {
	t.Helper()
	items, ok := v.AsList()
	require.True(t, ok)
	out := make([]string, 0, len(items))
	for _, item := range items {
		name, _ := item.Field("name")
		out = append(out, name.String())
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		props []domain.Property
		want  []string
	}{
		{"greater", props("field", "age", "operator", "greater", "value", 18), []string{"Alice"}},
		{"less", props("field", "age", "operator", "less", "value", "18"), []string{"Bob"}},
		{"equals", props("field", "name", "operator", "equals", "value", "Bob"), []string{"Bob"}},
		{"equals number as text", props("field", "age", "operator", "equals", "value", "31"), []string{"Alice"}},
		{"contains ignores case", props("field", "name", "operator", "contains", "value", "AR"), []string{"Carol"}},
		{"exists", props("field", "age", "operator", "exists"), []string{"Alice", "Bob"}},
		{"unknown operator keeps objects", props("field", "age", "operator", "whatever"), []string{"Alice", "Bob", "Carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Filter(map[string]domain.Value{"array": people()}, tt.props)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(t, out["filtered"]))
		})
	}
}

func TestFilter_Scalars(t *testing.T) {
	numbers := domain.List(domain.Number(5), domain.Number(12), domain.Number(40), domain.Number(10))

	out, err := Filter(map[string]domain.Value{"array": numbers},
		props("field", "value", "operator", "greater", "value", 10))
	require.NoError(t, err)

	assert.True(t, out["filtered"].Equal(domain.List(domain.Number(12), domain.Number(40))))
}

func TestFilter_NonSequenceInput(t *testing.T) {
	out, err := Filter(map[string]domain.Value{"array": domain.String("nope")}, nil)
	require.NoError(t, err)
	assert.True(t, out["filtered"].Equal(domain.List()))

	out, err = Filter(nil, nil)
	require.NoError(t, err)
	assert.True(t, out["filtered"].Equal(domain.List()))
}
