package connector

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAmountType is how a tax amount is computed
type TaxAmountType string

const (
	TaxAmountPercent TaxAmountType = "percent"
	TaxAmountFixed   TaxAmountType = "fixed"
)

// TaxUse is the document type a tax applies to
type TaxUse string

const (
	TaxUseSale     TaxUse = "sale"
	TaxUsePurchase TaxUse = "purchase"
	TaxUseNone     TaxUse = "none"
)

// Tax is a local tax
type Tax struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	GroupID      *uuid.UUID
	Name         string
	Amount       decimal.Decimal
	AmountType   TaxAmountType
	TypeTaxUse   TaxUse
	PriceInclude bool
	Active       bool
	Translations Translations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSalePercent reports whether the tax is a sale percentage tax, the only
// kind the shop understands.
func (t *Tax) IsSalePercent() bool {
	return t.AmountType == TaxAmountPercent && t.TypeTaxUse == TaxUseSale
}

// TaxGroup groups taxes; it is the local counterpart of a shop tax rule group
type TaxGroup struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
