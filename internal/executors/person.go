package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// ageRanges — диапазоны возраста по значению свойства ageRange.
var ageRanges = map[string][2]int{
	"child":  {5, 12},
	"teen":   {13, 19},
	"adult":  {20, 65},
	"senior": {66, 90},
}

// person генерирует людей.
//
// Свойства: ageRange (child|teen|adult|senior, иначе 18–80),
// includeEmail, includePhone, includeAddress.
//
// Outputs: {"persons": [{id, firstName, lastName, age, gender, ...}]}
func (g *generators) person(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	includeEmail := PropertyBool(props, "includeEmail")
	includePhone := PropertyBool(props, "includePhone")
	includeAddress := PropertyBool(props, "includeAddress")

	ages, ok := ageRanges[PropertyString(props, "ageRange")]
	if !ok {
		ages = [2]int{18, 80}
	}

	persons, err := g.generate(inputs, props, func() domain.Value {
		first := g.faker.FirstName()
		last := g.faker.LastName()

		person := map[string]domain.Value{
			"id":        domain.String(g.faker.UUID()),
			"firstName": domain.String(first),
			"lastName":  domain.String(last),
			"age":       domain.Int(g.faker.IntRange(ages[0], ages[1])),
			"gender":    domain.String(g.faker.Gender()),
		}
		if includeEmail {
			person["email"] = domain.String(g.emailFor(first, last))
		}
		if includePhone {
			person["phone"] = domain.String(g.faker.PhoneFormatted())
		}
		if includeAddress {
			person["address"] = g.address()
		}
		return domain.Map(person)
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"persons": persons}, nil
}
