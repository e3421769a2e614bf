package engine

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// Outputs — нормализованные выходы карточек одного запуска:
// ID карточки → имя выходного порта → последовательность.
type Outputs map[string]map[string][]domain.Value

// ResolveInputs собирает входы карточки из уже вычисленных выходов.
//
// Для каждого входного порта с входящим соединением берётся выход
// карточки-источника по имени её выходного порта; результат кладётся
// под именем входного порта. Если источник не выполнился, порт
// не найден или имени нет среди выходов, вход пропускается.
// Порты без соединений в результат не попадают.
func ResolveInputs(g *Graph, card *domain.Card, outputs Outputs) map[string]domain.Value {
	inputs := make(map[string]domain.Value, len(card.InputPorts))

	for _, port := range card.InputPorts {
		conn, ok := g.IncomingConnection(card.ID, port.ID)
		if !ok {
			continue
		}

		produced, ok := outputs[conn.SourceCardID]
		if !ok {
			continue
		}

		source := g.Card(conn.SourceCardID)
		if source == nil {
			continue
		}
		sourcePort := source.OutputPort(conn.SourcePortID)
		if sourcePort == nil {
			continue
		}

		seq, ok := produced[sourcePort.Name]
		if !ok {
			continue
		}
		inputs[port.Name] = domain.List(seq...)
	}

	return inputs
}
