package persistence

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBackendRepository implements connector.BackendRepository using GORM
type GormBackendRepository struct {
	db *gorm.DB
}

// NewGormBackendRepository creates a new GormBackendRepository
func NewGormBackendRepository(db *gorm.DB) *GormBackendRepository {
	return &GormBackendRepository{db: db}
}

// FindByID finds a backend by its ID
func (r *GormBackendRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Backend, error) {
	var model models.BackendModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns every backend ordered by name
func (r *GormBackendRepository) List(ctx context.Context) ([]connector.Backend, error) {
	var rows []models.BackendModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	backends := make([]connector.Backend, len(rows))
	for i := range rows {
		backends[i] = *rows[i].ToDomain()
	}
	return backends, nil
}

// Save creates or updates a backend
func (r *GormBackendRepository) Save(ctx context.Context, backend *connector.Backend) error {
	if err := backend.Validate(); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Save(models.BackendModelFromDomain(backend)).Error)
}

var _ connector.BackendRepository = (*GormBackendRepository)(nil)
