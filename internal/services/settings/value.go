package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"desguace/internal/models"
)

var ErrTypeMismatch = errors.New("settings: value has a different type")

// Value is a decoded setting value. Exactly one variant is set, selected by
// Kind; rows are parsed once when read from the store.
type Value struct {
	kind    models.SettingType
	text    string
	number  float64
	boolean bool
	raw     json.RawMessage
}

func Text(s string) Value {
	return Value{kind: models.SettingTypeText, text: s}
}

func Number(n float64) Value {
	return Value{kind: models.SettingTypeNumber, number: n}
}

func Boolean(b bool) Value {
	return Value{kind: models.SettingTypeBoolean, boolean: b}
}

// JSON encodes v eagerly so that an unencodable value fails here and not
// inside a write.
func JSON(v any) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("settings: encode json value: %w", err)
	}
	return Value{kind: models.SettingTypeJSON, raw: raw}, nil
}

// Infer picks the variant matching the Go type of v.
func Infer(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case bool:
		return Boolean(x), nil
	case int:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("settings: invalid number %q: %w", x, err)
		}
		return Number(f), nil
	default:
		return JSON(v)
	}
}

func (v Value) Kind() models.SettingType {
	if v.kind == "" {
		return models.SettingTypeText
	}
	return v.kind
}

// Encode returns the stored string form and its type tag.
func (v Value) Encode() (string, models.SettingType) {
	switch v.Kind() {
	case models.SettingTypeNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64), models.SettingTypeNumber
	case models.SettingTypeBoolean:
		return strconv.FormatBool(v.boolean), models.SettingTypeBoolean
	case models.SettingTypeJSON:
		return string(v.raw), models.SettingTypeJSON
	default:
		return v.text, models.SettingTypeText
	}
}

// Decode parses a stored string according to its type tag. Unknown tags are
// read as text.
func Decode(raw string, typ models.SettingType) (Value, error) {
	switch typ {
	case models.SettingTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("settings: invalid number %q: %w", raw, err)
		}
		return Number(n), nil
	case models.SettingTypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("settings: invalid boolean %q: %w", raw, err)
		}
		return Boolean(b), nil
	case models.SettingTypeJSON:
		if !json.Valid([]byte(raw)) {
			return Value{}, fmt.Errorf("settings: invalid json value")
		}
		return Value{kind: models.SettingTypeJSON, raw: json.RawMessage(raw)}, nil
	default:
		return Text(raw), nil
	}
}

// String renders any variant as text.
func (v Value) String() string {
	s, _ := v.Encode()
	return s
}

func (v Value) AsText() (string, error) {
	if v.Kind() != models.SettingTypeText {
		return "", ErrTypeMismatch
	}
	return v.text, nil
}

func (v Value) AsNumber() (float64, error) {
	if v.Kind() != models.SettingTypeNumber {
		return 0, ErrTypeMismatch
	}
	return v.number, nil
}

func (v Value) AsBool() (bool, error) {
	if v.Kind() != models.SettingTypeBoolean {
		return false, ErrTypeMismatch
	}
	return v.boolean, nil
}

func (v Value) AsJSON(target any) error {
	if v.Kind() != models.SettingTypeJSON {
		return ErrTypeMismatch
	}
	return json.Unmarshal(v.raw, target)
}

// Interface returns the variant as a plain Go value for API responses.
func (v Value) Interface() any {
	switch v.Kind() {
	case models.SettingTypeNumber:
		return v.number
	case models.SettingTypeBoolean:
		return v.boolean
	case models.SettingTypeJSON:
		return v.raw
	default:
		return v.text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
