package mapping

import (
	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyTaxes converts a price to the backend's tax representation.
// Prices are unchanged when there is no tax or when the tax already uses
// the backend's representation.
func ApplyTaxes(price decimal.Decimal, tax *connector.Tax, taxesIncluded bool) decimal.Decimal {
	if tax == nil {
		return price
	}
	if taxesIncluded == tax.PriceInclude {
		return price
	}
	factor := decimal.NewFromInt(1).Add(tax.Amount.Div(hundred))
	if taxesIncluded {
		return price.Mul(factor)
	}
	return price.Div(factor)
}

// FormatTaxRate renders a tax percentage with exactly three decimals
func FormatTaxRate(rate decimal.Decimal) string {
	return rate.StringFixed(3)
}
