package models

import (
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTemplateModel is the persistence model for a product template
type ProductTemplateModel struct {
	ID                   uuid.UUID              `gorm:"type:uuid;primary_key"`
	CompanyID            uuid.UUID              `gorm:"type:uuid;not null;index:idx_template_code,priority:1;index:idx_template_barcode,priority:1"`
	Name                 string                 `gorm:"type:varchar(255);not null"`
	DefaultCode          string                 `gorm:"type:varchar(100);index:idx_template_code,priority:2"`
	Barcode              string                 `gorm:"type:varchar(64);index:idx_template_barcode,priority:2"`
	Description          string                 `gorm:"type:text"`
	DescriptionHTML      string                 `gorm:"type:text"`
	DescriptionShortHTML string                 `gorm:"type:text"`
	LinkRewrite          string                 `gorm:"type:varchar(255)"`
	ListPrice            decimal.Decimal        `gorm:"type:decimal(20,6);not null"`
	StandardPrice        decimal.Decimal        `gorm:"type:decimal(20,6);not null"`
	WholesalePrice       decimal.Decimal        `gorm:"type:decimal(20,6);not null"`
	Weight               decimal.Decimal        `gorm:"type:decimal(20,6);not null"`
	Type                 string                 `gorm:"type:varchar(20);not null"`
	Visibility           string                 `gorm:"type:varchar(20)"`
	SaleOK               bool                   `gorm:"not null"`
	PurchaseOK           bool                   `gorm:"not null"`
	AlwaysAvailable      bool                   `gorm:"not null"`
	OnSale               bool                   `gorm:"not null"`
	AvailableForOrder    bool                   `gorm:"not null"`
	ShowPrice            bool                   `gorm:"not null"`
	LowStockAlert        bool                   `gorm:"not null"`
	LowStockThreshold    int                    `gorm:"not null"`
	DefaultShopID        int64                  `gorm:"not null"`
	DefaultImageID       int64                  `gorm:"not null"`
	TaxIDs               []uuid.UUID            `gorm:"type:jsonb;serializer:json"`
	ManufacturerID       *uuid.UUID             `gorm:"type:uuid"`
	DefaultVariantID     *uuid.UUID             `gorm:"type:uuid"`
	Active               bool                   `gorm:"not null"`
	Deleted              bool                   `gorm:"not null"`
	DateAdd              time.Time
	DateUpd              time.Time
	Translations         connector.Translations `gorm:"type:jsonb;serializer:json"`
	CreatedAt            time.Time              `gorm:"not null"`
	UpdatedAt            time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductTemplateModel) TableName() string {
	return "product_templates"
}

// ToDomain converts the model to a domain template
func (m *ProductTemplateModel) ToDomain() *connector.ProductTemplate {
	return &connector.ProductTemplate{
		ID:                   m.ID,
		CompanyID:            m.CompanyID,
		Name:                 m.Name,
		DefaultCode:          m.DefaultCode,
		Barcode:              m.Barcode,
		Description:          m.Description,
		DescriptionHTML:      m.DescriptionHTML,
		DescriptionShortHTML: m.DescriptionShortHTML,
		LinkRewrite:          m.LinkRewrite,
		ListPrice:            m.ListPrice,
		StandardPrice:        m.StandardPrice,
		WholesalePrice:       m.WholesalePrice,
		Weight:               m.Weight,
		Type:                 connector.ProductType(m.Type),
		Visibility:           m.Visibility,
		SaleOK:               m.SaleOK,
		PurchaseOK:           m.PurchaseOK,
		AlwaysAvailable:      m.AlwaysAvailable,
		OnSale:               m.OnSale,
		AvailableForOrder:    m.AvailableForOrder,
		ShowPrice:            m.ShowPrice,
		LowStockAlert:        m.LowStockAlert,
		LowStockThreshold:    m.LowStockThreshold,
		DefaultShopID:        m.DefaultShopID,
		DefaultImageID:       m.DefaultImageID,
		TaxIDs:               m.TaxIDs,
		ManufacturerID:       m.ManufacturerID,
		DefaultVariantID:     m.DefaultVariantID,
		Active:               m.Active,
		Deleted:              m.Deleted,
		DateAdd:              m.DateAdd,
		DateUpd:              m.DateUpd,
		Translations:         m.Translations,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// ProductTemplateModelFromDomain creates a model from a domain template
func ProductTemplateModelFromDomain(t *connector.ProductTemplate) *ProductTemplateModel {
	return &ProductTemplateModel{
		ID:                   t.ID,
		CompanyID:            t.CompanyID,
		Name:                 t.Name,
		DefaultCode:          t.DefaultCode,
		Barcode:              t.Barcode,
		Description:          t.Description,
		DescriptionHTML:      t.DescriptionHTML,
		DescriptionShortHTML: t.DescriptionShortHTML,
		LinkRewrite:          t.LinkRewrite,
		ListPrice:            t.ListPrice,
		StandardPrice:        t.StandardPrice,
		WholesalePrice:       t.WholesalePrice,
		Weight:               t.Weight,
		Type:                 string(t.Type),
		Visibility:           t.Visibility,
		SaleOK:               t.SaleOK,
		PurchaseOK:           t.PurchaseOK,
		AlwaysAvailable:      t.AlwaysAvailable,
		OnSale:               t.OnSale,
		AvailableForOrder:    t.AvailableForOrder,
		ShowPrice:            t.ShowPrice,
		LowStockAlert:        t.LowStockAlert,
		LowStockThreshold:    t.LowStockThreshold,
		DefaultShopID:        t.DefaultShopID,
		DefaultImageID:       t.DefaultImageID,
		TaxIDs:               t.TaxIDs,
		ManufacturerID:       t.ManufacturerID,
		DefaultVariantID:     t.DefaultVariantID,
		Active:               t.Active,
		Deleted:              t.Deleted,
		DateAdd:              t.DateAdd,
		DateUpd:              t.DateUpd,
		Translations:         t.Translations,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// ProductVariantModel is the persistence model for a product variant
type ProductVariantModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	TemplateID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_variant_code,priority:1;index:idx_variant_barcode,priority:1"`
	DefaultCode       string          `gorm:"type:varchar(100);index:idx_variant_code,priority:2"`
	Barcode           string          `gorm:"type:varchar(64);index:idx_variant_barcode,priority:2"`
	StandardPrice     decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	ImpactPrice       decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Weight            decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	IsDefault         bool            `gorm:"column:is_default;not null"`
	Active            bool            `gorm:"not null"`
	AttributeValueIDs []uuid.UUID     `gorm:"type:jsonb;serializer:json"`
	ImageIDs          []uuid.UUID     `gorm:"type:jsonb;serializer:json"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the model to a domain variant
func (m *ProductVariantModel) ToDomain() *connector.ProductVariant {
	return &connector.ProductVariant{
		ID:                m.ID,
		TemplateID:        m.TemplateID,
		CompanyID:         m.CompanyID,
		DefaultCode:       m.DefaultCode,
		Barcode:           m.Barcode,
		StandardPrice:     m.StandardPrice,
		ImpactPrice:       m.ImpactPrice,
		Weight:            m.Weight,
		Default:           m.IsDefault,
		Active:            m.Active,
		AttributeValueIDs: m.AttributeValueIDs,
		ImageIDs:          m.ImageIDs,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ProductVariantModelFromDomain creates a model from a domain variant
func ProductVariantModelFromDomain(v *connector.ProductVariant) *ProductVariantModel {
	return &ProductVariantModel{
		ID:                v.ID,
		TemplateID:        v.TemplateID,
		CompanyID:         v.CompanyID,
		DefaultCode:       v.DefaultCode,
		Barcode:           v.Barcode,
		StandardPrice:     v.StandardPrice,
		ImpactPrice:       v.ImpactPrice,
		Weight:            v.Weight,
		IsDefault:         v.Default,
		Active:            v.Active,
		AttributeValueIDs: v.AttributeValueIDs,
		ImageIDs:          v.ImageIDs,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

// AttributeModel is the persistence model for a variant attribute
type AttributeModel struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key"`
	Name         string                 `gorm:"type:varchar(255);not null"`
	DisplayType  string                 `gorm:"type:varchar(20)"`
	Translations connector.Translations `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time              `gorm:"not null"`
	UpdatedAt    time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "product_attributes"
}

// ToDomain converts the model to a domain attribute
func (m *AttributeModel) ToDomain() *connector.Attribute {
	return &connector.Attribute{
		ID:           m.ID,
		Name:         m.Name,
		DisplayType:  m.DisplayType,
		Translations: m.Translations,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AttributeModelFromDomain creates a model from a domain attribute
func AttributeModelFromDomain(a *connector.Attribute) *AttributeModel {
	return &AttributeModel{
		ID:           a.ID,
		Name:         a.Name,
		DisplayType:  a.DisplayType,
		Translations: a.Translations,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AttributeValueModel is the persistence model for an attribute value
type AttributeValueModel struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key"`
	AttributeID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Name         string                 `gorm:"type:varchar(255);not null"`
	HTMLColor    string                 `gorm:"type:varchar(20)"`
	Sequence     int                    `gorm:"not null"`
	Translations connector.Translations `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time              `gorm:"not null"`
	UpdatedAt    time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "product_attribute_values"
}

// ToDomain converts the model to a domain attribute value
func (m *AttributeValueModel) ToDomain() *connector.AttributeValue {
	return &connector.AttributeValue{
		ID:           m.ID,
		AttributeID:  m.AttributeID,
		Name:         m.Name,
		HTMLColor:    m.HTMLColor,
		Sequence:     m.Sequence,
		Translations: m.Translations,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AttributeValueModelFromDomain creates a model from a domain attribute value
func AttributeValueModelFromDomain(v *connector.AttributeValue) *AttributeValueModel {
	return &AttributeValueModel{
		ID:           v.ID,
		AttributeID:  v.AttributeID,
		Name:         v.Name,
		HTMLColor:    v.HTMLColor,
		Sequence:     v.Sequence,
		Translations: v.Translations,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// AttributeLineModel is the persistence model for a template attribute line
type AttributeLineModel struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	TemplateID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	AttributeID uuid.UUID   `gorm:"type:uuid;not null"`
	ValueIDs    []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	Sequence    int         `gorm:"not null"`
	CreatedAt   time.Time   `gorm:"not null"`
	UpdatedAt   time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttributeLineModel) TableName() string {
	return "product_attribute_lines"
}

// ToDomain converts the model to a domain attribute line
func (m *AttributeLineModel) ToDomain() *connector.AttributeLine {
	return &connector.AttributeLine{
		ID:          m.ID,
		TemplateID:  m.TemplateID,
		AttributeID: m.AttributeID,
		ValueIDs:    m.ValueIDs,
		Sequence:    m.Sequence,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AttributeLineModelFromDomain creates a model from a domain attribute line
func AttributeLineModelFromDomain(l *connector.AttributeLine) *AttributeLineModel {
	return &AttributeLineModel{
		ID:          l.ID,
		TemplateID:  l.TemplateID,
		AttributeID: l.AttributeID,
		ValueIDs:    l.ValueIDs,
		Sequence:    l.Sequence,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ProductImageModel is the persistence model for a product image
type ProductImageModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	TemplateID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255)"`
	StorageKey  string    `gorm:"type:varchar(512);not null"`
	URL         string    `gorm:"type:varchar(1024)"`
	ContentType string    `gorm:"type:varchar(100)"`
	Sequence    int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the model to a domain image
func (m *ProductImageModel) ToDomain() *connector.ProductImage {
	return &connector.ProductImage{
		ID:          m.ID,
		TemplateID:  m.TemplateID,
		Name:        m.Name,
		StorageKey:  m.StorageKey,
		URL:         m.URL,
		ContentType: m.ContentType,
		Sequence:    m.Sequence,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProductImageModelFromDomain creates a model from a domain image
func ProductImageModelFromDomain(i *connector.ProductImage) *ProductImageModel {
	return &ProductImageModel{
		ID:          i.ID,
		TemplateID:  i.TemplateID,
		Name:        i.Name,
		StorageKey:  i.StorageKey,
		URL:         i.URL,
		ContentType: i.ContentType,
		Sequence:    i.Sequence,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
