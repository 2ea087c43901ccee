package mapping

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

// NewTemplateMapper maps a shop product onto a local product template.
// Cost, weight, barcode and default code belong to the variants when the
// product has combinations.
func NewTemplateMapper() *Mapper {
	return NewMapper(connector.EntityProductTemplate,
		DirectDecimal("wholesale_price", "wholesale_price"),
		DirectInt("id_shop_default", "default_shop_id"),
		Direct("link_rewrite", "link_rewrite").Translated(),
		DirectInt("low_stock_threshold", "low_stock_threshold"),
		Computed("standard_price", templateStandardPrice),
		Computed("weight", templateWeight),
		Computed("default_code", templateDefaultCode),
		Computed("barcode", templateBarcode),
		Computed("list_price", templateListPrice),
		Computed("name", templateName).Translated(),
		Computed("date_add", dateField("date_add")),
		Computed("date_upd", dateField("date_upd")),
		Computed(KeyInternalID, templateInternalID).OnCreate(),
		Computed("description", templateDescription).Translated(),
		Computed("description_html", sanitizedField("description", "description_html")).Translated(),
		Computed("description_short_html", sanitizedField("description_short", "description_short_html")).Translated(),
		DirectBool("active", "always_available"),
		Const("sale_ok", true),
		Const("purchase_ok", true),
		Computed("default_image_id", templateDefaultImage),
		Computed("company_id", companyID),
		Computed("tax_ids", templateTaxIDs),
		Computed("type", templateType),
		Computed("visibility", templateVisibility),
		DirectBool("on_sale", "on_sale"),
		DirectBool("available_for_order", "available_for_order"),
		DirectBool("show_price", "show_price"),
		DirectBool("low_stock_alert", "low_stock_alert"),
		Computed("manufacturer_id", templateManufacturer),
	)
}

func templateStandardPrice(_ context.Context, env *Env, record connector.Record) (Values, error) {
	if hasCombinations(env, record) {
		return nil, nil
	}
	return Values{"standard_price": ParseDecimal(record.String("wholesale_price"))}, nil
}

func templateWeight(_ context.Context, env *Env, record connector.Record) (Values, error) {
	if hasCombinations(env, record) {
		return nil, nil
	}
	return Values{"weight": ParseDecimal(record.String("weight"))}, nil
}

func templateDefaultCode(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	if hasCombinations(env, record) {
		return nil, nil
	}
	candidate := record.String("reference")
	if candidate == "" {
		candidate = fmt.Sprintf("backend_%s_product_%d", env.Backend.ID, record.ID())
	}
	keep := env.Backend.MatchingProductCh == connector.MatchingByReference
	code, err := UniqueCode(ctx, candidate, keep, env.Lookup.TemplateCodeExists)
	if err != nil {
		return nil, err
	}
	return Values{"default_code": code}, nil
}

func templateBarcode(_ context.Context, env *Env, record connector.Record) (Values, error) {
	if hasCombinations(env, record) {
		return nil, nil
	}
	barcode := pickBarcode(record.String("barcode"), record.String("ean13"))
	if barcode == "" || !IsValidEAN13(barcode) {
		return nil, nil
	}
	return Values{"barcode": barcode}, nil
}

func templateListPrice(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	tax, err := env.Lookup.TaxForGroup(ctx, record.Int64("id_tax_rules_group"))
	if err != nil {
		return nil, err
	}
	price := ParseDecimal(record.String("price"))
	return Values{"list_price": ApplyTaxes(price, tax, env.Backend.TaxesIncluded)}, nil
}

func templateTaxIDs(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	tax, err := env.Lookup.TaxForGroup(ctx, record.Int64("id_tax_rules_group"))
	if err != nil {
		return nil, err
	}
	if tax == nil {
		return Values{"tax_ids": []uuid.UUID{}}, nil
	}
	return Values{"tax_ids": []uuid.UUID{tax.ID}}, nil
}

func templateName(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	name := record.String("name")
	if name == "" {
		name = NoName
	}
	return Values{"name": name}, nil
}

func templateInternalID(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	if !env.Backend.MatchingProductTemplate {
		return nil, nil
	}
	id, ok, err := env.Lookup.ResolveTemplate(ctx, record)
	if err != nil || !ok {
		return nil, err
	}
	return Values{KeyInternalID: id}, nil
}

func templateDescription(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	return Values{"description": HTMLToText(record.String("description_short"))}, nil
}

func templateDefaultImage(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	if !record.Has("id_default_image") {
		return Values{"default_image_id": int64(-1)}, nil
	}
	return Values{"default_image_id": record.Int64("id_default_image")}, nil
}

func templateType(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	if record.String("type") == "virtual" {
		return Values{"type": connector.ProductTypeService}, nil
	}
	return Values{"type": connector.ProductTypeProduct}, nil
}

func templateVisibility(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	switch v := record.String("visibility"); v {
	case "both", "catalog", "search":
		return Values{"visibility": v}, nil
	}
	return Values{"visibility": "none"}, nil
}

func templateManufacturer(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	externalID := record.Int64("id_manufacturer")
	if externalID <= 0 {
		return nil, nil
	}
	id, ok, err := env.Binder.ToInternal(ctx, connector.EntityManufacturer, externalID)
	if err != nil || !ok {
		return nil, err
	}
	return Values{"manufacturer_id": id}, nil
}

// shared computed rules

func dateField(field string) ApplyFunc {
	return func(_ context.Context, env *Env, record connector.Record) (Values, error) {
		return Values{field: normalizeDate(env, record.String(field))}, nil
	}
}

func sanitizedField(from, to string) ApplyFunc {
	return func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
		return Values{to: SanitizeHTML(record.String(from))}, nil
	}
}

func companyID(_ context.Context, env *Env, _ connector.Record) (Values, error) {
	return Values{"company_id": env.Backend.CompanyID}, nil
}

// requireBinding resolves a dependency that must have been imported first
func requireBinding(ctx context.Context, env *Env, entity connector.EntityType, externalID int64) (uuid.UUID, error) {
	id, ok, err := env.Binder.ToInternal(ctx, entity, externalID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, connector.NewValidationError(connector.CodeMissingBinding, connector.ErrMissingBinding,
			"%s %d is not imported", entity, externalID)
	}
	return id, nil
}
