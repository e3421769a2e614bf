package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/executors"
)

func TestDefault_BuiltinDefinitions(t *testing.T) {
	c := Default()

	assert.Equal(t, 10, c.Len())
	for _, id := range []string{
		"person-generator", "company-generator", "number-generator",
		"phone-generator", "internet-generator", "location-generator",
		"filter", "transform", "print-array", "json-preview",
	} {
		def, ok := c.Definition(id)
		require.True(t, ok, "definition %s missing", id)
		assert.Equal(t, id, def.ID)
	}
}

func TestDefault_AllExecutorsRegistered(t *testing.T) {
	require.NoError(t, Default().Validate(executors.Default(executors.Config{})))
}

func TestDefault_NumberGeneratorShape(t *testing.T) {
	def, ok := Default().Definition("number-generator")
	require.True(t, ok)

	require.Len(t, def.InputPorts, 1)
	assert.Equal(t, "count", def.InputPorts[0].Name)
	require.NotNil(t, def.InputPorts[0].DefaultValue)
	assert.True(t, def.InputPorts[0].DefaultValue.Equal(domain.Number(10)))

	require.Len(t, def.OutputPorts, 1)
	assert.Equal(t, "numbers", def.OutputPorts[0].Name)
	assert.Equal(t, executors.NumberGenerator, def.Executor)
}

func TestList_SortedByCategoryThenName(t *testing.T) {
	list := Default().List()
	require.Len(t, list, 10)

	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		if prev.Category == cur.Category {
			assert.LessOrEqual(t, prev.Name, cur.Name)
		} else {
			assert.Less(t, prev.Category, cur.Category)
		}
	}
	assert.Equal(t, "Data Processing", list[0].Category)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not json", `{`},
		{"key mismatch", `{"a": {"id": "b", "name": "B", "executor": "x"}}`},
		{"missing executor", `{"a": {"name": "A"}}`},
		{"missing port name", `{"a": {"name": "A", "executor": "x", "inputPorts": [{"dataType": "number"}]}}`},
		{"bad property type", `{"a": {"name": "A", "executor": "x", "properties": [{"name": "p", "type": "date"}]}}`},
		{"null definition", `{"a": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
		})
	}
}

func TestParse_IDFromKey(t *testing.T) {
	c, err := Parse(strings.NewReader(`{"custom": {"name": "Custom", "executor": "x"}}`))
	require.NoError(t, err)

	def, ok := c.Definition("custom")
	require.True(t, ok)
	assert.Equal(t, "custom", def.ID)
}

func TestValidate_UnknownExecutor(t *testing.T) {
	c, err := Parse(strings.NewReader(`{"custom": {"name": "Custom", "executor": "missing"}}`))
	require.NoError(t, err)

	err = c.Validate(executors.NewRegistry())
	assert.ErrorIs(t, err, ErrUnknownExecutor)
	assert.Contains(t, err.Error(), "custom uses missing")
}
