package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// companySizes — диапазоны числа сотрудников по значению свойства companySize.
var companySizes = map[string][2]int{
	"startup": {1, 10},
	"small":   {11, 50},
	"medium":  {51, 500},
	"large":   {501, 10000},
}

// company генерирует компании.
//
// Свойства: companySize (startup|small|medium|large, иначе 1–10000),
// includeAddress, includeWebsite.
//
// Outputs: {"companies": [{id, name, industry, employees, description, ...}]}
func (g *generators) company(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	includeAddress := PropertyBool(props, "includeAddress")
	includeWebsite := PropertyBool(props, "includeWebsite")

	size, ok := companySizes[PropertyString(props, "companySize")]
	if !ok {
		size = [2]int{1, 10000}
	}

	companies, err := g.generate(inputs, props, func() domain.Value {
		company := map[string]domain.Value{
			"id":          domain.String(g.faker.UUID()),
			"name":        domain.String(g.faker.Company()),
			"industry":    domain.String(g.faker.BuzzWord()),
			"employees":   domain.Int(g.faker.IntRange(size[0], size[1])),
			"description": domain.String(g.faker.Slogan()),
		}
		if includeAddress {
			company["address"] = g.address()
		}
		if includeWebsite {
			company["website"] = domain.String(g.faker.URL())
		}
		return domain.Map(company)
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"companies": companies}, nil
}
