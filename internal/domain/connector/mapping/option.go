package mapping

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
)

// NewOptionMapper maps a shop product option (attribute group) onto a
// local attribute
func NewOptionMapper() *Mapper {
	return NewMapper(connector.EntityCombinationOption,
		Computed("name", optionName).Translated(),
		Computed("display_type", optionDisplayType),
	)
}

// NewOptionValueMapper maps a shop option value onto a local attribute value
func NewOptionValueMapper() *Mapper {
	return NewMapper(connector.EntityCombinationOptionValue,
		Computed("name", optionName).Translated(),
		Direct("color", "html_color"),
		DirectInt("position", "sequence"),
		Computed("attribute_id", optionValueAttribute),
	)
}

func optionName(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	name := record.String("name")
	if name == "" {
		name = record.String("public_name")
	}
	if name == "" {
		name = NoName
	}
	return Values{"name": name}, nil
}

func optionDisplayType(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	switch t := record.String("group_type"); t {
	case "color", "radio":
		return Values{"display_type": t}, nil
	}
	return Values{"display_type": "select"}, nil
}

func optionValueAttribute(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	id, err := requireBinding(ctx, env, connector.EntityCombinationOption, record.Int64("id_attribute_group"))
	if err != nil {
		return nil, err
	}
	return Values{"attribute_id": id}, nil
}
