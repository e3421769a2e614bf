package engine

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// Graph — граф карточек и соединений одного запуска.
//
// Отвечает на два вопроса планировщика и resolver'а:
// от каких карточек зависит карточка X и какое соединение питает
// входной порт P карточки X. Соединения с несуществующими концами
// не влияют ни на порядок, ни на данные.
type Graph struct {
	// cards — карточки в исходном порядке (без дубликатов ID).
	cards []*domain.Card

	// byID — карточка по ID.
	byID map[string]*domain.Card

	// incoming — входящие соединения по ID целевой карточки, в исходном порядке.
	incoming map[string][]domain.Connection
}

// NewGraph строит граф. Карточки с повторяющимся ID, кроме первой, игнорируются.
func NewGraph(cards []domain.Card, connections []domain.Connection) *Graph {
	g := &Graph{
		cards:    make([]*domain.Card, 0, len(cards)),
		byID:     make(map[string]*domain.Card, len(cards)),
		incoming: make(map[string][]domain.Connection),
	}

	for i := range cards {
		card := &cards[i]
		if _, exists := g.byID[card.ID]; exists {
			continue
		}
		g.byID[card.ID] = card
		g.cards = append(g.cards, card)
	}

	for _, c := range connections {
		g.incoming[c.TargetCardID] = append(g.incoming[c.TargetCardID], c)
	}

	return g
}

// Cards возвращает карточки в исходном порядке.
func (g *Graph) Cards() []*domain.Card {
	return g.cards
}

// Card возвращает карточку по ID или nil.
func (g *Graph) Card(id string) *domain.Card {
	return g.byID[id]
}

// Size возвращает количество карточек.
func (g *Graph) Size() int {
	return len(g.cards)
}

// Dependencies возвращает ID карточек, от которых зависит cardID.
//
// Это источники соединений, ведущих в cardID, без повторов,
// в порядке соединений. Несуществующие источники пропускаются.
func (g *Graph) Dependencies(cardID string) []string {
	conns := g.incoming[cardID]
	deps := make([]string, 0, len(conns))
	seen := make(map[string]bool, len(conns))

	for _, c := range conns {
		if seen[c.SourceCardID] {
			continue
		}
		if _, exists := g.byID[c.SourceCardID]; !exists {
			continue
		}
		seen[c.SourceCardID] = true
		deps = append(deps, c.SourceCardID)
	}
	return deps
}

// IncomingConnection возвращает соединение, ведущее во входной порт.
// Если соединений несколько, возвращается первое.
func (g *Graph) IncomingConnection(cardID, portID string) (domain.Connection, bool) {
	for _, c := range g.incoming[cardID] {
		if c.TargetPortID == portID {
			return c, true
		}
	}
	return domain.Connection{}, false
}
