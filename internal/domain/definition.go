package domain

// PortDef — описание порта в определении карточки.
type PortDef struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	DataType     string `json:"dataType" yaml:"dataType"`
	DefaultValue *Value `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CardDefinition — шаблон карточки.
//
// Определения загружаются один раз и не изменяются.
// Карточки получают собственные копии портов и свойств (см. NewCard).
type CardDefinition struct {
	// ID — идентификатор определения (например, "number-generator").
	ID string `json:"id" yaml:"id" validate:"required"`

	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`

	InputPorts  []PortDef  `json:"inputPorts" yaml:"inputPorts" validate:"dive"`
	OutputPorts []PortDef  `json:"outputPorts" yaml:"outputPorts" validate:"dive"`
	Properties  []Property `json:"properties" yaml:"properties" validate:"dive"`

	// Executor — имя функции в реестре executors.
	Executor string `json:"executor" yaml:"executor" validate:"required"`
}

// DefinitionSet — набор определений по ID.
type DefinitionSet map[string]*CardDefinition

// Definition возвращает определение по ID.
func (s DefinitionSet) Definition(id string) (*CardDefinition, bool) {
	def, ok := s[id]
	return def, ok
}
