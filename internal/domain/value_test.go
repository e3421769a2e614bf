package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.False(t, v.Truthy())
}

func TestValue_ToNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"number", Number(5), 5, true},
		{"numeric string", String(" 12.5 "), 12.5, true},
		{"empty string", String(""), 0, true},
		{"text", String("abc"), 0, false},
		{"true", Bool(true), 1, true},
		{"null", Null(), 0, true},
		{"single element list", List(Number(3)), 3, true},
		{"nested single element", List(String("7")), 7, true},
		{"empty list", List(), 0, true},
		{"two elements", List(Number(1), Number(2)), 0, false},
		{"object", Map(nil), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.ToNumber()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "5", Number(5).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "1,a,", List(Number(1), String("a"), Null()).String())
	assert.Equal(t, "[object Object]", Map(nil).String())
}

func TestValue_Equal(t *testing.T) {
	a := Map(map[string]Value{"x": List(Number(1), String("b"))})
	b := Map(map[string]Value{"x": List(Number(1), String("b"))})
	c := Map(map[string]Value{"x": List(Number(1))})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, Number(10).Equal(String("10")))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	original := Map(map[string]Value{
		"name":  String("Ada"),
		"age":   Number(36),
		"tags":  List(String("a"), String("b")),
		"admin": Bool(false),
		"none":  Null(),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded), "decoded: %s", data)
}

func TestValue_MarshalJSON_NonFinite(t *testing.T) {
	v := Map(map[string]Value{
		"top":    Number(math.NaN()),
		"list":   List(Number(math.Inf(1)), Number(2)),
		"nested": Map(map[string]Value{"x": List(Number(math.Inf(-1)))}),
	})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"top":null,"list":[null,2],"nested":{"x":[null]}}`, string(data))

	data, err = json.Marshal(List(Number(math.Inf(1))))
	require.NoError(t, err)
	assert.Equal(t, "[null]", string(data))
}

func TestValue_YAMLDecode(t *testing.T) {
	src := []byte("count: 3\nitems:\n  - 1\n  - two\nenabled: true\n")

	var v Value
	require.NoError(t, yaml.Unmarshal(src, &v))

	count, ok := v.Field("count")
	require.True(t, ok)
	n, ok := count.AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.0, n)

	items, ok := v.Field("items")
	require.True(t, ok)
	assert.Equal(t, 2, items.Len())
}

func TestFromAny(t *testing.T) {
	v := FromAny(map[string]any{
		"n":    int64(4),
		"list": []any{"x", 1.5, nil},
	})

	require.True(t, v.IsMap())
	n, _ := v.Field("n")
	assert.True(t, n.Equal(Number(4)))

	list, _ := v.Field("list")
	items, ok := list.AsList()
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.True(t, items[2].IsNull())
}

func TestValue_Clone(t *testing.T) {
	items := []Value{Number(1)}
	original := List(items...)
	clone := original.Clone()

	items[0] = Number(2)

	cloned, _ := clone.AsList()
	assert.True(t, cloned[0].Equal(Number(1)))
}
