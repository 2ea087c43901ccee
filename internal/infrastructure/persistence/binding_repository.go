package persistence

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBindingRepository implements connector.BindingRepository using GORM
type GormBindingRepository struct {
	db *gorm.DB
}

// NewGormBindingRepository creates a new GormBindingRepository
func NewGormBindingRepository(db *gorm.DB) *GormBindingRepository {
	return &GormBindingRepository{db: db}
}

// FindByExternalID finds the binding of a remote record
func (r *GormBindingRepository) FindByExternalID(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64) (*connector.Binding, error) {
	var model models.BindingModel
	if err := r.db.WithContext(ctx).
		Where("backend_id = ? AND entity_type = ? AND external_id = ?", backendID, entity.String(), externalID).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByInternalID finds the binding of a local record
func (r *GormBindingRepository) FindByInternalID(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, internalID uuid.UUID) (*connector.Binding, error) {
	var model models.BindingModel
	if err := r.db.WithContext(ctx).
		Where("backend_id = ? AND entity_type = ? AND internal_id = ?", backendID, entity.String(), internalID).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// ListByBackend lists the bindings of one entity type ordered by remote id
func (r *GormBindingRepository) ListByBackend(ctx context.Context, backendID uuid.UUID, entity connector.EntityType) ([]connector.Binding, error) {
	var rows []models.BindingModel
	if err := r.db.WithContext(ctx).
		Where("backend_id = ? AND entity_type = ?", backendID, entity.String()).
		Order("external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	bindings := make([]connector.Binding, len(rows))
	for i := range rows {
		bindings[i] = *rows[i].ToDomain()
	}
	return bindings, nil
}

// Save creates or updates a binding. A second binding for the same remote
// or local record fails with shared.ErrAlreadyExists.
func (r *GormBindingRepository) Save(ctx context.Context, binding *connector.Binding) error {
	if err := binding.Validate(); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Save(models.BindingModelFromDomain(binding)).Error)
}

var _ connector.BindingRepository = (*GormBindingRepository)(nil)
