package engine

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// Цвета вершин при обходе в глубину.
const (
	unvisited = iota
	inProgress
	done
)

// Order возвращает порядок выполнения карточек.
//
// Обход в глубину с тремя цветами: перед карточкой выполняются все
// её зависимости. Независимые карточки идут в исходном порядке.
// Повторный вход в карточку, которая ещё в обработке, означает цикл:
// возвращается *CycleError, частичный порядок не возвращается.
func Order(g *Graph) ([]*domain.Card, error) {
	state := make(map[string]int, g.Size())
	order := make([]*domain.Card, 0, g.Size())
	path := make([]string, 0)

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case inProgress:
			return &CycleError{Path: cyclePath(path, id)}
		}

		state[id] = inProgress
		path = append(path, id)

		for _, dep := range g.Dependencies(id) {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		order = append(order, g.Card(id))
		return nil
	}

	for _, card := range g.Cards() {
		if err := visit(card.ID); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// cyclePath вырезает цикл из текущего пути обхода.
//
// Обход идёт от зависимой карточки к зависимостям, поэтому путь
// разворачивается в направлении потока данных: источник → приёмник.
func cyclePath(path []string, id string) []string {
	start := 0
	for i, p := range path {
		if p == id {
			start = i
			break
		}
	}

	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, id)
	for i := len(path) - 1; i > start; i-- {
		cycle = append(cycle, path[i])
	}
	return append(cycle, id)
}
