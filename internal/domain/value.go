package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind — тип значения, которое передаётся между карточками.
type Kind uint8

const (
	// KindNull — отсутствие значения. Нулевое значение Value имеет этот тип.
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String возвращает имя типа.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "array"
	case KindMap:
		return "object"
	default:
		return "null"
	}
}

// Value — значение порта или свойства карточки.
//
// Tagged variant: string | number | boolean | list | map | null.
// Value иммутабелен по соглашению: конструкторы не копируют переданные
// слайсы и map, поэтому их не нужно изменять после передачи.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

// Null возвращает пустое значение.
func Null() Value { return Value{} }

// String создаёт строковое значение.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number создаёт числовое значение.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int создаёт числовое значение из int.
func Int(i int) Value { return Number(float64(i)) }

// Bool создаёт булево значение.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List создаёт последовательность.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Map создаёт объект.
func Map(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindMap, m: fields}
}

// Kind возвращает тип значения.
func (v Value) Kind() Kind { return v.kind }

// IsNull возвращает true для пустого значения.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsList возвращает true для последовательности.
func (v Value) IsList() bool { return v.kind == KindList }

// IsMap возвращает true для объекта.
func (v Value) IsMap() bool { return v.kind == KindMap }

// AsString возвращает строку, если значение строковое.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber возвращает число, если значение числовое.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool возвращает bool, если значение булево.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsList возвращает элементы последовательности.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap возвращает поля объекта.
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// Len возвращает длину последовательности или количество полей объекта.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Field возвращает поле объекта.
// Для не-объектов всегда возвращает false.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	f, ok := v.m[name]
	return f, ok
}

// ToNumber приводит значение к числу.
//
// Правила:
//   - null → 0, bool → 1/0
//   - строка парсится (пустая строка → 0)
//   - последовательность из одного элемента → число этого элемента, пустая → 0
//
// Возвращает false, если значение не приводится к числу (NaN).
func (v Value) ToNumber() (float64, bool) {
	switch v.kind {
	case KindNull:
		return 0, true
	case KindNumber:
		return v.num, !math.IsNaN(v.num)
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case KindList:
		switch len(v.list) {
		case 0:
			return 0, true
		case 1:
			return v.list[0].ToNumber()
		}
	}
	return 0, false
}

// Truthy возвращает истинность значения.
// Ложны: null, пустая строка, 0, NaN, false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.b
	default:
		return true
	}
}

// String возвращает отображаемое представление значения.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			if item.IsNull() {
				continue
			}
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// Equal сравнивает значения рекурсивно. Типы должны совпадать.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := other.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone возвращает глубокую копию значения.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return List(items...)
	case KindMap:
		fields := make(map[string]Value, len(v.m))
		for k, f := range v.m {
			fields[k] = f.Clone()
		}
		return Map(fields)
	default:
		return v
	}
}

// Any конвертирует значение в обычные Go-типы:
// nil, string, float64, bool, []any, map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, f := range v.m {
			out[k] = f.Any()
		}
		return out
	default:
		return nil
	}
}

// FromAny строит Value из обычного Go-значения.
// Неизвестные типы превращаются в строку через fmt.Sprint.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case []Value:
		return List(x...)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = String(item)
		}
		return List(items...)
	case []map[string]any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]Value:
		return Map(x)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, f := range x {
			fields[k] = FromAny(f)
		}
		return Map(fields)
	case map[string]string:
		fields := make(map[string]Value, len(x))
		for k, f := range x {
			fields[k] = String(f)
		}
		return Map(fields)
	case map[any]any:
		fields := make(map[string]Value, len(x))
		for k, f := range x {
			fields[fmt.Sprint(k)] = FromAny(f)
		}
		return Map(fields)
	default:
		return String(fmt.Sprint(x))
	}
}

// MarshalJSON реализует json.Marshaler.
// NaN и ±Inf на любой глубине кодируются как null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.jsonAny())
}

// jsonAny — как Any, но с заменой нечисловых float на nil.
func (v Value) jsonAny() any {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil
		}
		return v.num
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.jsonAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, f := range v.m {
			out[k] = f.jsonAny()
		}
		return out
	default:
		return v.Any()
	}
}

// UnmarshalJSON реализует json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = FromAny(raw)
	return nil
}

// MarshalYAML реализует yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

// UnmarshalYAML реализует yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = FromAny(raw)
	return nil
}

// Keys возвращает отсортированные имена полей объекта.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
