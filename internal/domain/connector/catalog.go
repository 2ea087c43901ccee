package connector

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Translations holds translated field values keyed by language code then
// field name.
type Translations map[string]map[string]string

// Set stores one translated value
func (t Translations) Set(lang, field, value string) {
	if t[lang] == nil {
		t[lang] = make(map[string]string)
	}
	t[lang][field] = value
}

// Get returns a translated value, ok false when missing
func (t Translations) Get(lang, field string) (string, bool) {
	fields, ok := t[lang]
	if !ok {
		return "", false
	}
	v, ok := fields[field]
	return v, ok
}

// ProductType is the local product kind
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
)

// ProductTemplate is the local sellable item.
type ProductTemplate struct {
	ID                   uuid.UUID
	CompanyID            uuid.UUID
	Name                 string
	DefaultCode          string
	Barcode              string
	Description          string
	DescriptionHTML      string
	DescriptionShortHTML string
	LinkRewrite          string
	ListPrice            decimal.Decimal
	StandardPrice        decimal.Decimal
	WholesalePrice       decimal.Decimal
	Weight               decimal.Decimal
	Type                 ProductType
	Visibility           string
	SaleOK               bool
	PurchaseOK           bool
	AlwaysAvailable      bool
	OnSale               bool
	AvailableForOrder    bool
	ShowPrice            bool
	LowStockAlert        bool
	LowStockThreshold    int
	DefaultShopID        int64
	DefaultImageID       int64
	TaxIDs               []uuid.UUID
	ManufacturerID       *uuid.UUID
	DefaultVariantID     *uuid.UUID
	Active               bool
	Deleted              bool
	DateAdd              time.Time
	DateUpd              time.Time
	Translations         Translations
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProductVariant is one sellable variant of a template. Every template gets
// one variant without attribute values when created.
type ProductVariant struct {
	ID                uuid.UUID
	TemplateID        uuid.UUID
	CompanyID         uuid.UUID
	DefaultCode       string
	Barcode           string
	StandardPrice     decimal.Decimal
	ImpactPrice       decimal.Decimal
	Weight            decimal.Decimal
	Default           bool
	Active            bool
	AttributeValueIDs []uuid.UUID
	ImageIDs          []uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasAttributes reports whether the variant is distinguished by attribute values
func (v *ProductVariant) HasAttributes() bool {
	return len(v.AttributeValueIDs) > 0
}

// Attribute is a variant dimension such as size or colour
type Attribute struct {
	ID           uuid.UUID
	Name         string
	DisplayType  string
	Translations Translations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AttributeValue is one value of an attribute
type AttributeValue struct {
	ID           uuid.UUID
	AttributeID  uuid.UUID
	Name         string
	HTMLColor    string
	Sequence     int
	Translations Translations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AttributeLine lists the values of one attribute used by a template
type AttributeLine struct {
	ID          uuid.UUID
	TemplateID  uuid.UUID
	AttributeID uuid.UUID
	ValueIDs    []uuid.UUID
	Sequence    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductImage is an image attached to a template
type ProductImage struct {
	ID          uuid.UUID
	TemplateID  uuid.UUID
	Name        string
	StorageKey  string
	URL         string
	ContentType string
	Sequence    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
