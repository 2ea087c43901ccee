package persistence

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaxRepository implements connector.TaxRepository using GORM
type GormTaxRepository struct {
	db *gorm.DB
}

// NewGormTaxRepository creates a new GormTaxRepository
func NewGormTaxRepository(db *gorm.DB) *GormTaxRepository {
	return &GormTaxRepository{db: db}
}

// FindByID finds a tax by its ID
func (r *GormTaxRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Tax, error) {
	var model models.TaxModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// ListByGroup lists the taxes of a group, inactive ones included
func (r *GormTaxRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]connector.Tax, error) {
	var rows []models.TaxModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	taxes := make([]connector.Tax, len(rows))
	for i := range rows {
		taxes[i] = *rows[i].ToDomain()
	}
	return taxes, nil
}

// Save creates or updates a tax
func (r *GormTaxRepository) Save(ctx context.Context, tax *connector.Tax) error {
	return translate(r.db.WithContext(ctx).Save(models.TaxModelFromDomain(tax)).Error)
}

// FindGroupByID finds a tax group by its ID
func (r *GormTaxRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*connector.TaxGroup, error) {
	var model models.TaxGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindGroupByName finds the oldest tax group with the exact name
func (r *GormTaxRepository) FindGroupByName(ctx context.Context, companyID uuid.UUID, name string) (*connector.TaxGroup, error) {
	var model models.TaxGroupModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// SaveGroup creates or updates a tax group
func (r *GormTaxRepository) SaveGroup(ctx context.Context, group *connector.TaxGroup) error {
	return translate(r.db.WithContext(ctx).Save(models.TaxGroupModelFromDomain(group)).Error)
}

// GormPartnerRepository implements connector.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds the oldest contact with the email, ignoring case
func (r *GormPartnerRepository) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*connector.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND LOWER(email) = LOWER(?) AND parent_id IS NULL", companyID, email).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, partner *connector.Partner) error {
	return translate(r.db.WithContext(ctx).Save(models.PartnerModelFromDomain(partner)).Error)
}

// FindCarrierByID finds a carrier by its ID
func (r *GormPartnerRepository) FindCarrierByID(ctx context.Context, id uuid.UUID) (*connector.Carrier, error) {
	var model models.CarrierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// SaveCarrier creates or updates a carrier
func (r *GormPartnerRepository) SaveCarrier(ctx context.Context, carrier *connector.Carrier) error {
	return translate(r.db.WithContext(ctx).Save(models.CarrierModelFromDomain(carrier)).Error)
}

var (
	_ connector.TaxRepository     = (*GormTaxRepository)(nil)
	_ connector.PartnerRepository = (*GormPartnerRepository)(nil)
)
