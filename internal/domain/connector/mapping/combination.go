package mapping

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

// NewCombinationMapper maps a shop combination onto a local product variant
func NewCombinationMapper() *Mapper {
	return NewMapper(connector.EntityProductCombination,
		Computed("template_id", combinationTemplate),
		DirectBool("default_on", "default"),
		Computed("attribute_value_ids", combinationAttributeValues),
		Computed("default_code", combinationDefaultCode),
		Computed("barcode", combinationBarcode),
		Computed("standard_price", combinationStandardPrice),
		Computed("impact_price", combinationImpactPrice),
		Computed("weight", combinationWeight),
		Computed("company_id", companyID),
		Const("active", true),
	)
}

func combinationTemplate(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	id, err := requireBinding(ctx, env, connector.EntityProductTemplate, record.Int64("id_product"))
	if err != nil {
		return nil, err
	}
	return Values{"template_id": id}, nil
}

// OptionValueEntries returns the option values of a combination record
func OptionValueEntries(backend *connector.Backend, record connector.Record) []connector.Record {
	return record.Association("product_option_values", backend.VersionKey("product_option_values"))
}

func combinationAttributeValues(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, entry := range OptionValueEntries(env.Backend, record) {
		id, err := requireBinding(ctx, env, connector.EntityCombinationOptionValue, entry.ID())
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return Values{"attribute_value_ids": ids}, nil
}

func combinationDefaultCode(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	candidate := record.String("reference")
	if candidate == "" {
		candidate = fmt.Sprintf("%d_%d", record.Int64("id_product"), record.ID())
	}
	keep := env.Backend.MatchingProductCh == connector.MatchingByReference
	code, err := UniqueCode(ctx, candidate, keep, env.Lookup.VariantCodeExists)
	if err != nil {
		return nil, err
	}
	return Values{"default_code": code}, nil
}

func combinationBarcode(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	barcode := pickBarcode(record.String("barcode"), record.String("ean13"))
	if barcode == "" {
		template, err := env.Lookup.RemoteRecord(ctx, connector.EntityProductTemplate, record.Int64("id_product"))
		if err != nil {
			return nil, err
		}
		barcode = pickBarcode(template.String("barcode"), template.String("ean13"))
	}
	if barcode == "" || !IsValidEAN13(barcode) {
		return nil, nil
	}
	return Values{"barcode": barcode}, nil
}

func combinationStandardPrice(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	cost := ParseDecimal(record.String("wholesale_price"))
	if cost.IsPositive() {
		return Values{"standard_price": cost}, nil
	}
	template, err := mainTemplate(ctx, env, record)
	if err != nil {
		return nil, err
	}
	return Values{"standard_price": template.WholesalePrice}, nil
}

func combinationImpactPrice(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	template, err := mainTemplate(ctx, env, record)
	if err != nil {
		return nil, err
	}
	var tax *connector.Tax
	if len(template.TaxIDs) > 0 {
		tax, err = env.Lookup.Tax(ctx, template.TaxIDs[0])
		if err != nil {
			return nil, err
		}
	}
	impact := ApplyTaxes(ParseDecimal(record.String("price")), tax, env.Backend.TaxesIncluded)
	return Values{"impact_price": impact}, nil
}

func combinationWeight(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	template, err := mainTemplate(ctx, env, record)
	if err != nil {
		return nil, err
	}
	weight := template.Weight.Add(ParseDecimal(record.String("weight")))
	return Values{"weight": weight}, nil
}

func mainTemplate(ctx context.Context, env *Env, record connector.Record) (*connector.ProductTemplate, error) {
	id, err := requireBinding(ctx, env, connector.EntityProductTemplate, record.Int64("id_product"))
	if err != nil {
		return nil, err
	}
	return env.Lookup.Template(ctx, id)
}
