package executors

import (
	"math"

	"github.com/shaiso/Cardflow/internal/domain"
)

// number генерирует случайные числа.
//
// Свойства: min (по умолчанию 1), max (по умолчанию 100),
// precision — количество знаков после запятой (0 — целые).
// Значение по умолчанию применяется, только если свойство отсутствует
// или не является числом: min = 0 остаётся нулём.
//
// Outputs: {"numbers": [...]}
func (g *generators) number(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	lo, ok := PropertyNumber(props, "min")
	if !ok {
		lo = 1
	}
	hi, ok := PropertyNumber(props, "max")
	if !ok {
		hi = 100
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	precision := 0
	if p, ok := PropertyNumber(props, "precision"); ok && p > 0 {
		precision = int(math.Min(p, 15))
	}

	numbers, err := g.generate(inputs, props, func() domain.Value {
		if precision == 0 {
			min, max := int(clampInt(math.Ceil(lo))), int(clampInt(math.Floor(hi)))
			if min > max {
				return domain.Int(min)
			}
			return domain.Int(g.faker.IntRange(min, max))
		}
		// Интерполяция без hi-lo: разность широкого диапазона переполняется
		f := g.faker.Float64()
		return domain.Number(round(lo*(1-f)+hi*f, precision))
	})
	if err != nil {
		return nil, err
	}

	return map[string]domain.Value{"numbers": numbers}, nil
}

// maxExactInt — наибольшее целое, точно представимое в float64.
const maxExactInt = 1 << 53

func clampInt(f float64) float64 {
	return math.Max(-maxExactInt, math.Min(maxExactInt, f))
}

// round округляет f до digits знаков после запятой.
// Числа, слишком большие для масштабирования, возвращаются как есть.
func round(f float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	scaled := f * pow
	if math.IsInf(scaled, 0) {
		return f
	}
	return math.Round(scaled) / pow
}
