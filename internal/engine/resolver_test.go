package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaiso/Cardflow/internal/domain"
)

func TestResolveInputs_MatchesByPortName(t *testing.T) {
	cards := []domain.Card{
		card("S", "d", nil, []string{"count"}),
		card("T", "d", []string{"count"}, nil),
	}
	g := NewGraph(cards, []domain.Connection{connect("S", "count", "T", "count")})

	outputs := Outputs{"S": {"count": {domain.Number(7)}}}

	inputs := ResolveInputs(g, g.Card("T"), outputs)
	assert.Len(t, inputs, 1)
	assert.True(t, inputs["count"].Equal(domain.List(domain.Number(7))))
}

func TestResolveInputs_StoredUnderInputPortName(t *testing.T) {
	cards := []domain.Card{
		card("S", "d", nil, []string{"numbers"}),
		card("T", "d", []string{"array"}, nil),
	}
	g := NewGraph(cards, []domain.Connection{connect("S", "numbers", "T", "array")})

	outputs := Outputs{"S": {"numbers": {domain.Number(1), domain.Number(2)}}}

	inputs := ResolveInputs(g, g.Card("T"), outputs)
	assert.Equal(t, 2, inputs["array"].Len())
}

func TestResolveInputs_NameMismatchOmitsInput(t *testing.T) {
	cards := []domain.Card{
		card("S", "d", nil, []string{"count"}),
		card("T", "d", []string{"count"}, nil),
	}
	g := NewGraph(cards, []domain.Connection{connect("S", "count", "T", "count")})

	// Функция источника вернула выход с другим именем
	outputs := Outputs{"S": {"total": {domain.Number(7)}}}

	assert.Empty(t, ResolveInputs(g, g.Card("T"), outputs))
}

func TestResolveInputs_GapsAreNotErrors(t *testing.T) {
	cards := []domain.Card{
		card("S", "d", nil, []string{"out"}),
		card("T", "d", []string{"a", "b", "c"}, nil),
	}
	conns := []domain.Connection{
		connect("S", "out", "T", "a"),
		connect("ghost", "out", "T", "b"),
		{ID: "bad-port", SourceCardID: "S", SourcePortID: "missing", TargetCardID: "T", TargetPortID: "T.c"},
	}
	g := NewGraph(cards, conns)

	// S не выполнился
	assert.Empty(t, ResolveInputs(g, g.Card("T"), Outputs{}))

	// S выполнился, но b и c всё равно не разрешаются
	inputs := ResolveInputs(g, g.Card("T"), Outputs{"S": {"out": {domain.String("x")}}})
	assert.Len(t, inputs, 1)
	assert.Contains(t, inputs, "a")
}

func TestResolveInputs_UnconnectedPortValueNotInjected(t *testing.T) {
	c := card("T", "d", []string{"count"}, nil)
	v := domain.Number(3)
	c.InputPorts[0].Value = &v

	g := NewGraph([]domain.Card{c}, nil)
	assert.Empty(t, ResolveInputs(g, g.Card("T"), Outputs{}))
}

func TestResolveInputs_FirstConnectionWins(t *testing.T) {
	cards := []domain.Card{
		card("S1", "d", nil, []string{"out"}),
		card("S2", "d", nil, []string{"out"}),
		card("T", "d", []string{"in"}, nil),
	}
	conns := []domain.Connection{
		connect("S1", "out", "T", "in"),
		connect("S2", "out", "T", "in"),
	}
	g := NewGraph(cards, conns)

	outputs := Outputs{
		"S1": {"out": {domain.String("first")}},
		"S2": {"out": {domain.String("second")}},
	}

	inputs := ResolveInputs(g, g.Card("T"), outputs)
	assert.True(t, inputs["in"].Equal(domain.List(domain.String("first"))))
}
