package mapping

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KeyInternalID carries the id of an existing local record the remote
// record must be bound to instead of creating a new one.
const KeyInternalID = "internal_id"

// Values are local field assignments keyed by snake_case field name
type Values map[string]any

// Merge copies other into v, overriding existing keys
func (v Values) Merge(other Values) {
	for k, val := range other {
		v[k] = val
	}
}

// Has reports whether key is set
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// InternalID returns the local id the record resolved to, if any
func (v Values) InternalID() (uuid.UUID, bool) {
	id, ok := v[KeyInternalID].(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Decode writes the values onto the struct pointed to by out. Keys match
// exported field names ignoring case and underscores; fields without a key
// keep their current value.
func (v Values) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		MatchName:        matchFieldName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			uuidHook,
			emptyTimeHook,
			mapstructure.StringToTimeHookFunc(connector.DateLayout),
		),
	})
	if err != nil {
		return fmt.Errorf("mapping: decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(v)); err != nil {
		return fmt.Errorf("mapping: decode: %w", err)
	}
	return nil
}

func matchFieldName(key, field string) bool {
	return strings.EqualFold(strings.ReplaceAll(key, "_", ""), field)
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	timeType    = reflect.TypeOf(time.Time{})
)

func decimalHook(from, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return data, nil
}

func uuidHook(from, to reflect.Type, data any) (any, error) {
	if to != uuidType || from.Kind() != reflect.String {
		return data, nil
	}
	return uuid.Parse(data.(string))
}

func emptyTimeHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	if s := data.(string); s == "" || s == connector.ZeroDate {
		return time.Time{}, nil
	}
	return data, nil
}
