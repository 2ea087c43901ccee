package mapping

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
)

// NewTaxExportMapper exports sale percentage taxes
func NewTaxExportMapper() *ExportMapper[connector.Tax] {
	return NewExportMapper(connector.EntityTax,
		func(tax *connector.Tax) bool { return !tax.IsSalePercent() },
		ExportRule[connector.Tax]{Target: "active", Apply: func(_ context.Context, _ *Env, tax *connector.Tax) (Values, error) {
			return Values{"active": FormatBool(tax.Active)}, nil
		}},
		ExportRule[connector.Tax]{Target: "name", Apply: func(_ context.Context, env *Env, tax *connector.Tax) (Values, error) {
			return Values{"name": LanguageField(env.Backend, "name", tax.Name, tax.Translations)}, nil
		}},
		ExportRule[connector.Tax]{Target: "rate", Apply: func(_ context.Context, _ *Env, tax *connector.Tax) (Values, error) {
			return Values{"rate": FormatTaxRate(tax.Amount)}, nil
		}},
	)
}

// NewTaxGroupExportMapper exports tax groups as tax rule groups
func NewTaxGroupExportMapper() *ExportMapper[connector.TaxGroup] {
	return NewExportMapper[connector.TaxGroup](connector.EntityTaxGroup, nil,
		ExportRule[connector.TaxGroup]{Target: "active", Apply: func(_ context.Context, _ *Env, group *connector.TaxGroup) (Values, error) {
			return Values{"active": FormatBool(group.Active)}, nil
		}},
		ExportRule[connector.TaxGroup]{Target: "name", Apply: func(_ context.Context, _ *Env, group *connector.TaxGroup) (Values, error) {
			return Values{"name": group.Name}, nil
		}},
	)
}

// NewTaxGroupMapper maps a shop tax rule group onto a local tax group. New
// groups attach to an existing local group of the same name.
func NewTaxGroupMapper() *Mapper {
	return NewMapper(connector.EntityTaxGroup,
		Direct("name", "name"),
		Computed("active", func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
			if !record.Has("active") {
				return Values{"active": true}, nil
			}
			return Values{"active": ParseBool(record.String("active"))}, nil
		}),
		Computed("company_id", companyID),
		Computed(KeyInternalID, func(ctx context.Context, env *Env, record connector.Record) (Values, error) {
			id, ok, err := env.Lookup.TaxGroupByName(ctx, record.String("name"))
			if err != nil || !ok {
				return nil, err
			}
			return Values{KeyInternalID: id}, nil
		}).OnCreate(),
	)
}
