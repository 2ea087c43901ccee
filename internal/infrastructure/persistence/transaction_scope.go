package persistence

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"gorm.io/gorm"
)

// GormTransactionScope implements connector.TransactionScope using GORM
// transactions. fn's error rolls every write back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos connector.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// gormRepositories gives access to every repository on one connection
type gormRepositories struct {
	tx *gorm.DB
}

// NewRepositories returns the repositories bound to db
func NewRepositories(db *gorm.DB) connector.Repositories {
	return &gormRepositories{tx: db}
}

func (r *gormRepositories) Bindings() connector.BindingRepository {
	return NewGormBindingRepository(r.tx)
}

func (r *gormRepositories) Templates() connector.TemplateRepository {
	return NewGormTemplateRepository(r.tx)
}

func (r *gormRepositories) Variants() connector.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

func (r *gormRepositories) Attributes() connector.AttributeRepository {
	return NewGormAttributeRepository(r.tx)
}

func (r *gormRepositories) AttributeLines() connector.AttributeLineRepository {
	return NewGormAttributeLineRepository(r.tx)
}

func (r *gormRepositories) Images() connector.ImageRepository {
	return NewGormImageRepository(r.tx)
}

func (r *gormRepositories) Taxes() connector.TaxRepository {
	return NewGormTaxRepository(r.tx)
}

func (r *gormRepositories) Partners() connector.PartnerRepository {
	return NewGormPartnerRepository(r.tx)
}

var _ connector.TransactionScope = (*GormTransactionScope)(nil)
