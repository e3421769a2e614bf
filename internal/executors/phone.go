package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// phoneFormats — шаблоны номеров по значению свойства format.
var phoneFormats = map[string]string{
	"local":         "###-####",
	"national":      "(###) ###-####",
	"international": "+1 ### ### ####",
}

// phone генерирует телефонные номера.
//
// Свойства: format (local|national|international, иначе gofakeit Phone).
//
// Outputs: {"phones": [...]}
func (g *generators) phone(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	pattern, formatted := phoneFormats[PropertyString(props, "format")]

	phones, err := g.generate(inputs, props, func() domain.Value {
		if formatted {
			return domain.String(g.faker.Numerify(pattern))
		}
		return domain.String(g.faker.Phone())
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"phones": phones}, nil
}
