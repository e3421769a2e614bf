package domain

import (
	"time"

	"github.com/google/uuid"
)

// Connection — направленное ребро: выход одной карточки → вход другой.
type Connection struct {
	ID           string `json:"id" yaml:"id" validate:"required"`
	SourceCardID string `json:"sourceCardId" yaml:"sourceCardId" validate:"required"`
	SourcePortID string `json:"sourcePortId" yaml:"sourcePortId" validate:"required"`
	TargetCardID string `json:"targetCardId" yaml:"targetCardId" validate:"required"`
	TargetPortID string `json:"targetPortId" yaml:"targetPortId" validate:"required"`
}

// Pipeline — граф карточек и соединений с метаданными.
//
// Pipeline — единица сохранения, загрузки и выполнения.
// Соединения с несуществующими концами допустимы: движок их игнорирует.
type Pipeline struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Cards       []Card       `json:"cards" yaml:"cards" validate:"dive"`
	Connections []Connection `json:"connections" yaml:"connections" validate:"dive"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"updatedAt"`
}

// NewPipeline создаёт пустой pipeline.
func NewPipeline(name, description string) *Pipeline {
	now := time.Now().UTC()
	return &Pipeline{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Cards:       make([]Card, 0),
		Connections: make([]Connection, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Card возвращает карточку по ID.
func (p *Pipeline) Card(id string) *Card {
	for i := range p.Cards {
		if p.Cards[i].ID == id {
			return &p.Cards[i]
		}
	}
	return nil
}

// AddCard добавляет карточку в pipeline.
func (p *Pipeline) AddCard(card Card) *Card {
	p.Cards = append(p.Cards, card)
	p.touch()
	return &p.Cards[len(p.Cards)-1]
}

// Connect соединяет выходной порт одной карточки с входным портом другой.
//
// Входной порт может иметь только одно входящее соединение:
// повторное соединение отклоняется с ErrInputAlreadyConnected.
// Совместимость типов данных портов не проверяется.
func (p *Pipeline) Connect(sourceCardID, sourcePortID, targetCardID, targetPortID string) (*Connection, error) {
	source := p.Card(sourceCardID)
	if source == nil {
		return nil, &ConnectionError{CardID: sourceCardID, Err: ErrCardNotFound}
	}
	target := p.Card(targetCardID)
	if target == nil {
		return nil, &ConnectionError{CardID: targetCardID, Err: ErrCardNotFound}
	}

	if source.OutputPort(sourcePortID) == nil {
		if source.InputPort(sourcePortID) != nil {
			return nil, &ConnectionError{CardID: sourceCardID, PortID: sourcePortID, Err: ErrPortDirection}
		}
		return nil, &ConnectionError{CardID: sourceCardID, PortID: sourcePortID, Err: ErrPortNotFound}
	}
	if target.InputPort(targetPortID) == nil {
		if target.OutputPort(targetPortID) != nil {
			return nil, &ConnectionError{CardID: targetCardID, PortID: targetPortID, Err: ErrPortDirection}
		}
		return nil, &ConnectionError{CardID: targetCardID, PortID: targetPortID, Err: ErrPortNotFound}
	}

	for _, c := range p.Connections {
		if c.TargetCardID == targetCardID && c.TargetPortID == targetPortID {
			return nil, &ConnectionError{CardID: targetCardID, PortID: targetPortID, Err: ErrInputAlreadyConnected}
		}
	}

	conn := Connection{
		ID:           uuid.NewString(),
		SourceCardID: sourceCardID,
		SourcePortID: sourcePortID,
		TargetCardID: targetCardID,
		TargetPortID: targetPortID,
	}
	p.Connections = append(p.Connections, conn)

	source.OutputPort(sourcePortID).Connected = true
	target.InputPort(targetPortID).Connected = true
	p.touch()

	return &p.Connections[len(p.Connections)-1], nil
}

// RemoveConnection удаляет соединение по ID.
func (p *Pipeline) RemoveConnection(id string) error {
	for i, c := range p.Connections {
		if c.ID == id {
			p.Connections = append(p.Connections[:i], p.Connections[i+1:]...)
			p.RefreshConnected()
			p.touch()
			return nil
		}
	}
	return ErrConnectionNotFound
}

// RemoveItems удаляет карточки и соединения по ID.
//
// Вместе с карточкой удаляются все соединения, которые её касаются.
// Неизвестные ID игнорируются. Возвращает количество удалённых карточек и соединений.
func (p *Pipeline) RemoveItems(ids ...string) (cards, connections int) {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	keptCards := p.Cards[:0]
	for _, c := range p.Cards {
		if selected[c.ID] {
			cards++
			continue
		}
		keptCards = append(keptCards, c)
	}
	p.Cards = keptCards

	keptConns := p.Connections[:0]
	for _, c := range p.Connections {
		if selected[c.ID] || selected[c.SourceCardID] || selected[c.TargetCardID] {
			connections++
			continue
		}
		keptConns = append(keptConns, c)
	}
	p.Connections = keptConns

	if cards > 0 || connections > 0 {
		p.RefreshConnected()
		p.touch()
	}
	return cards, connections
}

// RefreshConnected пересчитывает флаг Connected у всех портов.
func (p *Pipeline) RefreshConnected() {
	type endpoint struct{ card, port string }

	used := make(map[endpoint]bool, len(p.Connections)*2)
	for _, c := range p.Connections {
		used[endpoint{c.SourceCardID, c.SourcePortID}] = true
		used[endpoint{c.TargetCardID, c.TargetPortID}] = true
	}

	for i := range p.Cards {
		card := &p.Cards[i]
		for j := range card.InputPorts {
			card.InputPorts[j].Connected = used[endpoint{card.ID, card.InputPorts[j].ID}]
		}
		for j := range card.OutputPorts {
			card.OutputPorts[j].Connected = used[endpoint{card.ID, card.OutputPorts[j].ID}]
		}
	}
}

// SetPortValue задаёт текущее значение порта (ввод пользователя).
func (p *Pipeline) SetPortValue(cardID, portID string, value Value) error {
	card := p.Card(cardID)
	if card == nil {
		return ErrCardNotFound
	}
	port := card.Port(portID)
	if port == nil {
		return ErrPortNotFound
	}
	port.Value = &value
	p.touch()
	return nil
}

// SetProperty задаёт значение свойства карточки.
// Если свойства нет, оно добавляется с типом по значению.
func (p *Pipeline) SetProperty(cardID, name string, value Value) error {
	card := p.Card(cardID)
	if card == nil {
		return ErrCardNotFound
	}
	for i := range card.Properties {
		if card.Properties[i].Name == name {
			card.Properties[i].Value = value
			p.touch()
			return nil
		}
	}
	card.Properties = append(card.Properties, Property{
		Name:  name,
		Type:  propertyTypeOf(value),
		Value: value,
	})
	p.touch()
	return nil
}

// ApplyResults записывает результаты выполнения в порты.
//
// Выходной порт получает значение по своему имени, входные порты,
// подключённые к нему, получают то же значение. Карточки с ошибкой пропускаются.
func (p *Pipeline) ApplyResults(results []ExecutionResult) {
	for _, res := range results {
		if res.Failed() {
			continue
		}
		card := p.Card(res.CardID)
		if card == nil {
			continue
		}

		for i := range card.OutputPorts {
			out := &card.OutputPorts[i]
			seq, ok := res.Outputs[out.Name]
			if !ok {
				continue
			}
			value := List(seq...)
			out.Value = &value

			for _, c := range p.Connections {
				if c.SourceCardID != card.ID || c.SourcePortID != out.ID {
					continue
				}
				target := p.Card(c.TargetCardID)
				if target == nil {
					continue
				}
				if in := target.InputPort(c.TargetPortID); in != nil {
					v := value
					in.Value = &v
				}
			}
		}
	}
}

func (p *Pipeline) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func propertyTypeOf(v Value) PropertyType {
	switch v.Kind() {
	case KindNumber:
		return PropertyNumber
	case KindBool:
		return PropertyBoolean
	case KindList:
		return PropertyArray
	default:
		return PropertyString
	}
}
