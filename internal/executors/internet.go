package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// internet генерирует интернет-данные.
//
// Свойства: dataType (email|url|ip|domain|username, иначе email),
// provider — домен почты для dataType=email ("mixed" или пусто — случайный).
//
// Outputs: {"data": [...]}
func (g *generators) internet(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	dataType := PropertyString(props, "dataType")
	provider := PropertyString(props, "provider")

	data, err := g.generate(inputs, props, func() domain.Value {
		switch dataType {
		case "url":
			return domain.String(g.faker.URL())
		case "ip":
			return domain.String(g.faker.IPv4Address())
		case "domain":
			return domain.String(g.faker.DomainName())
		case "username":
			return domain.String(g.faker.Username())
		case "email":
			if provider != "" && provider != "mixed" {
				return domain.String(mailbox(g.faker.FirstName(), g.faker.LastName()) + "@" + provider)
			}
			return domain.String(g.faker.Email())
		default:
			return domain.String(g.faker.Email())
		}
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"data": data}, nil
}
