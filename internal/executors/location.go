package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// location генерирует местоположения.
//
// Свойства: locationType (address|city|coordinates|zipcode, иначе address),
// includeCoordinates — добавить latitude/longitude (кроме coordinates).
//
// Outputs: {"locations": [{id, ...}]}
func (g *generators) location(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	locationType := PropertyString(props, "locationType")
	includeCoordinates := PropertyBool(props, "includeCoordinates") && locationType != "coordinates"

	locations, err := g.generate(inputs, props, func() domain.Value {
		loc := map[string]domain.Value{
			"id": domain.String(g.faker.UUID()),
		}

		switch locationType {
		case "city":
			loc["city"] = domain.String(g.faker.City())
			loc["state"] = domain.String(g.faker.State())
			loc["country"] = domain.String(g.faker.Country())
		case "coordinates":
			loc["latitude"] = domain.Number(g.faker.Latitude())
			loc["longitude"] = domain.Number(g.faker.Longitude())
		case "zipcode":
			loc["zipCode"] = domain.String(g.faker.Zip())
		default:
			addr, _ := g.address().AsMap()
			for k, v := range addr {
				loc[k] = v
			}
		}

		if includeCoordinates {
			loc["latitude"] = domain.Number(g.faker.Latitude())
			loc["longitude"] = domain.Number(g.faker.Longitude())
		}
		return domain.Map(loc)
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"locations": locations}, nil
}
