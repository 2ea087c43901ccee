package models

import (
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxModel is the persistence model for a tax
type TaxModel struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key"`
	CompanyID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	GroupID      *uuid.UUID             `gorm:"type:uuid;index"`
	Name         string                 `gorm:"type:varchar(255);not null"`
	Amount       decimal.Decimal        `gorm:"type:decimal(10,4);not null"`
	AmountType   string                 `gorm:"type:varchar(20);not null"`
	TypeTaxUse   string                 `gorm:"type:varchar(20);not null"`
	PriceInclude bool                   `gorm:"not null"`
	Active       bool                   `gorm:"not null"`
	Translations connector.Translations `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time              `gorm:"not null"`
	UpdatedAt    time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxModel) TableName() string {
	return "taxes"
}

// ToDomain converts the model to a domain tax
func (m *TaxModel) ToDomain() *connector.Tax {
	return &connector.Tax{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		GroupID:      m.GroupID,
		Name:         m.Name,
		Amount:       m.Amount,
		AmountType:   connector.TaxAmountType(m.AmountType),
		TypeTaxUse:   connector.TaxUse(m.TypeTaxUse),
		PriceInclude: m.PriceInclude,
		Active:       m.Active,
		Translations: m.Translations,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// TaxModelFromDomain creates a model from a domain tax
func TaxModelFromDomain(t *connector.Tax) *TaxModel {
	return &TaxModel{
		ID:           t.ID,
		CompanyID:    t.CompanyID,
		GroupID:      t.GroupID,
		Name:         t.Name,
		Amount:       t.Amount,
		AmountType:   string(t.AmountType),
		TypeTaxUse:   string(t.TypeTaxUse),
		PriceInclude: t.PriceInclude,
		Active:       t.Active,
		Translations: t.Translations,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// TaxGroupModel is the persistence model for a tax group
type TaxGroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_tax_group_name,priority:1"`
	Name      string    `gorm:"type:varchar(255);not null;index:idx_tax_group_name,priority:2"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxGroupModel) TableName() string {
	return "tax_groups"
}

// ToDomain converts the model to a domain tax group
func (m *TaxGroupModel) ToDomain() *connector.TaxGroup {
	return &connector.TaxGroup{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// TaxGroupModelFromDomain creates a model from a domain tax group
func TaxGroupModelFromDomain(g *connector.TaxGroup) *TaxGroupModel {
	return &TaxGroupModel{
		ID:        g.ID,
		CompanyID: g.CompanyID,
		Name:      g.Name,
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// PartnerModel is the persistence model for customers, addresses and
// manufacturers
type PartnerModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_partner_email,priority:1"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"type:varchar(20);not null"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Email       string     `gorm:"type:varchar(255);index:idx_partner_email,priority:2"`
	Phone       string     `gorm:"type:varchar(50)"`
	Mobile      string     `gorm:"type:varchar(50)"`
	Street      string     `gorm:"type:varchar(255)"`
	Street2     string     `gorm:"type:varchar(255)"`
	City        string     `gorm:"type:varchar(100)"`
	Zip         string     `gorm:"type:varchar(20)"`
	CountryCode string     `gorm:"type:varchar(2)"`
	VatNumber   string     `gorm:"type:varchar(50)"`
	Company     string     `gorm:"type:varchar(255)"`
	Alias       string     `gorm:"type:varchar(100)"`
	Comment     string     `gorm:"type:text"`
	IsCompany   bool       `gorm:"not null"`
	Newsletter  bool       `gorm:"not null"`
	Birthday    *time.Time
	Active      bool  `gorm:"not null"`
	ShopGroupID int64 `gorm:"not null"`
	ShopID      int64 `gorm:"not null"`
	DateAdd     time.Time
	DateUpd     time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the model to a domain partner
func (m *PartnerModel) ToDomain() *connector.Partner {
	return &connector.Partner{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		ParentID:    m.ParentID,
		Type:        connector.PartnerType(m.Type),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Mobile:      m.Mobile,
		Street:      m.Street,
		Street2:     m.Street2,
		City:        m.City,
		Zip:         m.Zip,
		CountryCode: m.CountryCode,
		VatNumber:   m.VatNumber,
		Company:     m.Company,
		Alias:       m.Alias,
		Comment:     m.Comment,
		IsCompany:   m.IsCompany,
		Newsletter:  m.Newsletter,
		Birthday:    m.Birthday,
		Active:      m.Active,
		ShopGroupID: m.ShopGroupID,
		ShopID:      m.ShopID,
		DateAdd:     m.DateAdd,
		DateUpd:     m.DateUpd,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// PartnerModelFromDomain creates a model from a domain partner
func PartnerModelFromDomain(p *connector.Partner) *PartnerModel {
	return &PartnerModel{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		ParentID:    p.ParentID,
		Type:        string(p.Type),
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Mobile:      p.Mobile,
		Street:      p.Street,
		Street2:     p.Street2,
		City:        p.City,
		Zip:         p.Zip,
		CountryCode: p.CountryCode,
		VatNumber:   p.VatNumber,
		Company:     p.Company,
		Alias:       p.Alias,
		Comment:     p.Comment,
		IsCompany:   p.IsCompany,
		Newsletter:  p.Newsletter,
		Birthday:    p.Birthday,
		Active:      p.Active,
		ShopGroupID: p.ShopGroupID,
		ShopID:      p.ShopID,
		DateAdd:     p.DateAdd,
		DateUpd:     p.DateUpd,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CarrierModel is the persistence model for a delivery carrier
type CarrierModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CarrierModel) TableName() string {
	return "delivery_carriers"
}

// ToDomain converts the model to a domain carrier
func (m *CarrierModel) ToDomain() *connector.Carrier {
	return &connector.Carrier{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CarrierModelFromDomain creates a model from a domain carrier
func CarrierModelFromDomain(c *connector.Carrier) *CarrierModel {
	return &CarrierModel{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// All lists every model for auto-migration in tests
func All() []any {
	return []any{
		&BackendModel{},
		&BindingModel{},
		&ProductTemplateModel{},
		&ProductVariantModel{},
		&AttributeModel{},
		&AttributeValueModel{},
		&AttributeLineModel{},
		&ProductImageModel{},
		&TaxModel{},
		&TaxGroupModel{},
		&PartnerModel{},
		&CarrierModel{},
	}
}
