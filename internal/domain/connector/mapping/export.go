package mapping

import (
	"context"
	"fmt"
	"strconv"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
)

// ExportFunc computes shop fields from a local record
type ExportFunc[T any] func(ctx context.Context, env *Env, src *T) (Values, error)

// ExportRule is one export mapping rule
type ExportRule[T any] struct {
	Target string
	Apply  ExportFunc[T]
}

// ExportMapper builds shop payloads from local records of type T.
type ExportMapper[T any] struct {
	entity connector.EntityType
	rules  []ExportRule[T]
	// skip reports whether a record must not be exported
	skip func(src *T) bool
}

// NewExportMapper creates an export mapper
func NewExportMapper[T any](entity connector.EntityType, skip func(src *T) bool, rules ...ExportRule[T]) *ExportMapper[T] {
	return &ExportMapper[T]{entity: entity, rules: rules, skip: skip}
}

// Entity returns the entity type the mapper handles
func (m *ExportMapper[T]) Entity() connector.EntityType {
	return m.entity
}

// Skip reports whether src fails the export eligibility predicate
func (m *ExportMapper[T]) Skip(src *T) bool {
	return m.skip != nil && m.skip(src)
}

// Map evaluates the rules in declaration order into a flat payload
func (m *ExportMapper[T]) Map(ctx context.Context, env *Env, src *T) (connector.Record, error) {
	out := connector.Record{}
	for _, rule := range m.rules {
		values, err := rule.Apply(ctx, env, src)
		if err != nil {
			return nil, fmt.Errorf("export %s.%s: %w", m.entity, rule.Target, err)
		}
		for k, v := range values {
			out[k] = v
		}
	}
	return out, nil
}

// LanguageField renders a translatable value in the shop's multi-language
// shape. Languages without a translation get the main value.
func LanguageField(backend *connector.Backend, field, value string, translations connector.Translations) []map[string]any {
	out := make([]map[string]any, 0, len(backend.Languages))
	for _, lang := range backend.Languages {
		v := value
		if translated, ok := translations.Get(lang.Code, field); ok && translated != "" {
			v = translated
		}
		out = append(out, map[string]any{"id": strconv.FormatInt(lang.ExternalID, 10), "value": v})
	}
	return out
}
