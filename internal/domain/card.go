package domain

import (
	"github.com/google/uuid"
)

// PortDirection — направление порта.
type PortDirection string

const (
	// PortInput — входной порт, принимает значение по соединению.
	PortInput PortDirection = "input"

	// PortOutput — выходной порт, отдаёт результат карточки.
	PortOutput PortDirection = "output"
)

// Port — именованный вход или выход карточки.
//
// Порты создаются вместе с карточкой из её определения.
// После создания меняются только Value и Connected.
type Port struct {
	// ID — уникальный идентификатор порта.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name — имя порта. По имени выполняется передача данных между карточками.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Direction — направление: "input" или "output".
	Direction PortDirection `json:"type" yaml:"type"`

	// DataType — объявленный тип данных ("string", "number", "array", "object", ...).
	// Не проверяется движком.
	DataType string `json:"dataType" yaml:"dataType"`

	// Connected — есть ли соединение, ссылающееся на порт.
	// Поддерживается через Pipeline.RefreshConnected.
	Connected bool `json:"connected" yaml:"connected"`

	// Value — текущее значение (ввод пользователя или результат последнего запуска).
	Value *Value `json:"value,omitempty" yaml:"value,omitempty"`

	// DefaultValue — значение по умолчанию для входного порта.
	DefaultValue *Value `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`

	// ShowDisplayValue — показывать ли значение в UI.
	ShowDisplayValue bool `json:"showDisplayValue,omitempty" yaml:"showDisplayValue,omitempty"`
}

// PropertyType — тип свойства карточки.
type PropertyType string

const (
	PropertyString  PropertyType = "string"
	PropertyNumber  PropertyType = "number"
	PropertyBoolean PropertyType = "boolean"
	PropertySelect  PropertyType = "select"
	PropertyArray   PropertyType = "array"
)

// Property — именованное свойство (настройка) карточки.
type Property struct {
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Type        PropertyType `json:"type" yaml:"type" validate:"omitempty,oneof=string number boolean select array"`
	Value       Value        `json:"value" yaml:"value"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// Position — координаты карточки на холсте. Движком не используется.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Card — экземпляр карточки в pipeline.
type Card struct {
	// ID — уникальный идентификатор карточки.
	ID string `json:"id" yaml:"id" validate:"required"`

	// DefinitionID — ссылка на CardDefinition.
	DefinitionID string `json:"definitionId" yaml:"definitionId" validate:"required"`

	// Name — отображаемое имя.
	Name string `json:"name" yaml:"name"`

	Position Position `json:"position" yaml:"position"`

	// InputPorts и OutputPorts — упорядоченные порты карточки.
	InputPorts  []Port `json:"inputPorts" yaml:"inputPorts" validate:"dive"`
	OutputPorts []Port `json:"outputPorts" yaml:"outputPorts" validate:"dive"`

	// Properties — настройки карточки, передаются в executor.
	Properties []Property `json:"properties" yaml:"properties" validate:"dive"`

	// IsSelected — выделение в UI.
	IsSelected bool `json:"isSelected" yaml:"isSelected"`
}

// NewCard создаёт карточку из определения.
//
// Порты и свойства копируются из определения, каждому порту
// назначается новый ID. Входной порт получает значение по умолчанию.
func NewCard(def *CardDefinition, pos Position) *Card {
	card := &Card{
		ID:           uuid.NewString(),
		DefinitionID: def.ID,
		Name:         def.Name,
		Position:     pos,
		InputPorts:   make([]Port, 0, len(def.InputPorts)),
		OutputPorts:  make([]Port, 0, len(def.OutputPorts)),
		Properties:   CloneProperties(def.Properties),
	}

	for _, pd := range def.InputPorts {
		port := Port{
			ID:        uuid.NewString(),
			Name:      pd.Name,
			Direction: PortInput,
			DataType:  pd.DataType,
		}
		if pd.DefaultValue != nil {
			value := pd.DefaultValue.Clone()
			dflt := pd.DefaultValue.Clone()
			port.Value = &value
			port.DefaultValue = &dflt
		}
		card.InputPorts = append(card.InputPorts, port)
	}

	for _, pd := range def.OutputPorts {
		card.OutputPorts = append(card.OutputPorts, Port{
			ID:        uuid.NewString(),
			Name:      pd.Name,
			Direction: PortOutput,
			DataType:  pd.DataType,
		})
	}

	return card
}

// InputPort возвращает входной порт по ID.
func (c *Card) InputPort(id string) *Port {
	for i := range c.InputPorts {
		if c.InputPorts[i].ID == id {
			return &c.InputPorts[i]
		}
	}
	return nil
}

// OutputPort возвращает выходной порт по ID.
func (c *Card) OutputPort(id string) *Port {
	for i := range c.OutputPorts {
		if c.OutputPorts[i].ID == id {
			return &c.OutputPorts[i]
		}
	}
	return nil
}

// Port ищет порт по ID среди входов и выходов.
func (c *Card) Port(id string) *Port {
	if p := c.InputPort(id); p != nil {
		return p
	}
	return c.OutputPort(id)
}

// PortByName ищет порт заданного направления по имени.
func (c *Card) PortByName(dir PortDirection, name string) *Port {
	ports := c.InputPorts
	if dir == PortOutput {
		ports = c.OutputPorts
	}
	for i := range ports {
		if ports[i].Name == name {
			return &ports[i]
		}
	}
	return nil
}

// Property возвращает свойство по имени.
func (c *Card) Property(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// CloneProperties возвращает глубокую копию набора свойств.
func CloneProperties(props []Property) []Property {
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p
		out[i].Value = p.Value.Clone()
		if p.Options != nil {
			out[i].Options = append([]string(nil), p.Options...)
		}
	}
	return out
}
