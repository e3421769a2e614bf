package engine

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// card создаёт карточку с портами, ID портов = "<card>.<name>".
func card(id, definitionID string, inputs, outputs []string, props ...domain.Property) domain.Card {
	c := domain.Card{
		ID:           id,
		DefinitionID: definitionID,
		Name:         id,
		Properties:   props,
	}
	for _, name := range inputs {
		c.InputPorts = append(c.InputPorts, domain.Port{ID: id + "." + name, Name: name, Direction: domain.PortInput})
	}
	for _, name := range outputs {
		c.OutputPorts = append(c.OutputPorts, domain.Port{ID: id + "." + name, Name: name, Direction: domain.PortOutput})
	}
	return c
}

// connect создаёт соединение source.out → target.in.
func connect(source, out, target, in string) domain.Connection {
	return domain.Connection{
		ID:           source + "->" + target + ":" + in,
		SourceCardID: source,
		SourcePortID: source + "." + out,
		TargetCardID: target,
		TargetPortID: target + "." + in,
	}
}

func ids(cards []*domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
