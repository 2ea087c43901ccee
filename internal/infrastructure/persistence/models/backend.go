package models

import (
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

// BackendModel is the persistence model for a shop backend
type BackendModel struct {
	ID                      uuid.UUID            `gorm:"type:uuid;primary_key"`
	Name                    string               `gorm:"type:varchar(100);not null;uniqueIndex"`
	URL                     string               `gorm:"type:varchar(255);not null"`
	APIKey                  string               `gorm:"type:varchar(255);not null"`
	Version                 string               `gorm:"type:varchar(20);not null"`
	CompanyID               uuid.UUID            `gorm:"type:uuid;not null;index"`
	TaxesIncluded           bool                 `gorm:"not null"`
	MatchingProductTemplate bool                 `gorm:"not null"`
	MatchingProductCh       string               `gorm:"type:varchar(20);not null"`
	MatchingCustomer        bool                 `gorm:"not null"`
	Languages               []connector.Language `gorm:"type:jsonb;serializer:json"`
	ImportProductsSince     *time.Time
	ImportPartnersSince     *time.Time
	CreatedAt               time.Time `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BackendModel) TableName() string {
	return "prestashop_backends"
}

// ToDomain converts the model to a domain backend
func (m *BackendModel) ToDomain() *connector.Backend {
	return &connector.Backend{
		ID:                      m.ID,
		Name:                    m.Name,
		URL:                     m.URL,
		APIKey:                  m.APIKey,
		Version:                 m.Version,
		CompanyID:               m.CompanyID,
		TaxesIncluded:           m.TaxesIncluded,
		MatchingProductTemplate: m.MatchingProductTemplate,
		MatchingProductCh:       connector.MatchingStrategy(m.MatchingProductCh),
		MatchingCustomer:        m.MatchingCustomer,
		Languages:               m.Languages,
		ImportProductsSince:     m.ImportProductsSince,
		ImportPartnersSince:     m.ImportPartnersSince,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// BackendModelFromDomain creates a model from a domain backend
func BackendModelFromDomain(b *connector.Backend) *BackendModel {
	return &BackendModel{
		ID:                      b.ID,
		Name:                    b.Name,
		URL:                     b.URL,
		APIKey:                  b.APIKey,
		Version:                 b.Version,
		CompanyID:               b.CompanyID,
		TaxesIncluded:           b.TaxesIncluded,
		MatchingProductTemplate: b.MatchingProductTemplate,
		MatchingProductCh:       b.MatchingProductCh.String(),
		MatchingCustomer:        b.MatchingCustomer,
		Languages:               b.Languages,
		ImportProductsSince:     b.ImportProductsSince,
		ImportPartnersSince:     b.ImportPartnersSince,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}
}

// BindingModel is the persistence model for a binding
type BindingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BackendID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_binding_external,priority:1;uniqueIndex:idx_binding_internal,priority:1"`
	EntityType string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_binding_external,priority:2;uniqueIndex:idx_binding_internal,priority:2"`
	ExternalID int64     `gorm:"not null;uniqueIndex:idx_binding_external,priority:3"`
	InternalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_binding_internal,priority:3"`
	SyncDate   *time.Time
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BindingModel) TableName() string {
	return "prestashop_bindings"
}

// ToDomain converts the model to a domain binding
func (m *BindingModel) ToDomain() *connector.Binding {
	return &connector.Binding{
		ID:         m.ID,
		BackendID:  m.BackendID,
		EntityType: connector.EntityType(m.EntityType),
		ExternalID: m.ExternalID,
		InternalID: m.InternalID,
		SyncDate:   m.SyncDate,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// BindingModelFromDomain creates a model from a domain binding
func BindingModelFromDomain(b *connector.Binding) *BindingModel {
	return &BindingModel{
		ID:         b.ID,
		BackendID:  b.BackendID,
		EntityType: b.EntityType.String(),
		ExternalID: b.ExternalID,
		InternalID: b.InternalID,
		SyncDate:   b.SyncDate,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
