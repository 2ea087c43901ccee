package connector

import (
	"time"

	"github.com/google/uuid"
)

// PartnerType distinguishes contacts from addresses
type PartnerType string

const (
	PartnerTypeContact  PartnerType = "contact"
	PartnerTypeInvoice  PartnerType = "invoice"
	PartnerTypeDelivery PartnerType = "delivery"
	PartnerTypeOther    PartnerType = "other"
)

// Partner is a customer, an address of a customer or a manufacturer
type Partner struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	ParentID    *uuid.UUID
	Type        PartnerType
	Name        string
	Email       string
	Phone       string
	Mobile      string
	Street      string
	Street2     string
	City        string
	Zip         string
	CountryCode string
	VatNumber   string
	Company     string
	Alias       string
	Comment     string
	IsCompany   bool
	Newsletter  bool
	Birthday    *time.Time
	Active      bool
	ShopGroupID int64
	ShopID      int64
	DateAdd     time.Time
	DateUpd     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Carrier is a local delivery method
type Carrier struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
