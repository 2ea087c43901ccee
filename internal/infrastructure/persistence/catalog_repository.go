package persistence

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// matchingColumn returns the column a matching strategy compares
func matchingColumn(field connector.MatchingStrategy) (string, error) {
	switch field {
	case connector.MatchingByReference:
		return "default_code", nil
	case connector.MatchingByBarcode:
		return "barcode", nil
	}
	return "", fmt.Errorf("%w: %q", connector.ErrBackendInvalidMatching, field)
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

// GormTemplateRepository implements connector.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.ProductTemplate, error) {
	var model models.ProductTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a template by default code, inactive ones included
func (r *GormTemplateRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*connector.ProductTemplate, error) {
	var model models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND default_code = ?", companyID, code).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindMatching lists non deleted templates whose matching field equals
// value, oldest first. limit <= 0 returns every match.
func (r *GormTemplateRepository) FindMatching(ctx context.Context, companyID uuid.UUID, field connector.MatchingStrategy, value string, limit int) ([]connector.ProductTemplate, error) {
	column, err := matchingColumn(field)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND deleted = ?", companyID, false).
		Where(column+" = ?", value).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.ProductTemplateModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	templates := make([]connector.ProductTemplate, len(rows))
	for i := range rows {
		templates[i] = *rows[i].ToDomain()
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, template *connector.ProductTemplate) error {
	return translate(r.db.WithContext(ctx).Save(models.ProductTemplateModelFromDomain(template)).Error)
}

// ---------------------------------------------------------------------------
// Variants
// ---------------------------------------------------------------------------

// GormVariantRepository implements connector.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.ProductVariant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a variant by default code
func (r *GormVariantRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*connector.ProductVariant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND default_code = ?", companyID, code).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindMatching lists variants whose matching field equals value
func (r *GormVariantRepository) FindMatching(ctx context.Context, companyID uuid.UUID, field connector.MatchingStrategy, value string) ([]connector.ProductVariant, error) {
	column, err := matchingColumn(field)
	if err != nil {
		return nil, err
	}
	var rows []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where(column+" = ?", value).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return variantsToDomain(rows), nil
}

// ListByTemplate lists the variants of a template in creation order
func (r *GormVariantRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]connector.ProductVariant, error) {
	var rows []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return variantsToDomain(rows), nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *connector.ProductVariant) error {
	return translate(r.db.WithContext(ctx).Save(models.ProductVariantModelFromDomain(variant)).Error)
}

func variantsToDomain(rows []models.ProductVariantModel) []connector.ProductVariant {
	variants := make([]connector.ProductVariant, len(rows))
	for i := range rows {
		variants[i] = *rows[i].ToDomain()
	}
	return variants
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// GormAttributeRepository implements connector.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by its ID
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Attribute, error) {
	var model models.AttributeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *connector.Attribute) error {
	return translate(r.db.WithContext(ctx).Save(models.AttributeModelFromDomain(attribute)).Error)
}

// FindValueByID finds an attribute value by its ID
func (r *GormAttributeRepository) FindValueByID(ctx context.Context, id uuid.UUID) (*connector.AttributeValue, error) {
	var model models.AttributeValueModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// SaveValue creates or updates an attribute value
func (r *GormAttributeRepository) SaveValue(ctx context.Context, value *connector.AttributeValue) error {
	return translate(r.db.WithContext(ctx).Save(models.AttributeValueModelFromDomain(value)).Error)
}

// GormAttributeLineRepository implements connector.AttributeLineRepository
type GormAttributeLineRepository struct {
	db *gorm.DB
}

// NewGormAttributeLineRepository creates a new GormAttributeLineRepository
func NewGormAttributeLineRepository(db *gorm.DB) *GormAttributeLineRepository {
	return &GormAttributeLineRepository{db: db}
}

// ListByTemplate lists the attribute lines of a template by sequence
func (r *GormAttributeLineRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]connector.AttributeLine, error) {
	var rows []models.AttributeLineModel
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("sequence ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]connector.AttributeLine, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines, nil
}

// Save creates or updates an attribute line
func (r *GormAttributeLineRepository) Save(ctx context.Context, line *connector.AttributeLine) error {
	return translate(r.db.WithContext(ctx).Save(models.AttributeLineModelFromDomain(line)).Error)
}

// Delete removes an attribute line
func (r *GormAttributeLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AttributeLineModel{}, "id = ?", id).Error
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// GormImageRepository implements connector.ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.ProductImage, error) {
	var model models.ProductImageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an image
func (r *GormImageRepository) Save(ctx context.Context, image *connector.ProductImage) error {
	return translate(r.db.WithContext(ctx).Save(models.ProductImageModelFromDomain(image)).Error)
}

var (
	_ connector.TemplateRepository      = (*GormTemplateRepository)(nil)
	_ connector.VariantRepository       = (*GormVariantRepository)(nil)
	_ connector.AttributeRepository     = (*GormAttributeRepository)(nil)
	_ connector.AttributeLineRepository = (*GormAttributeLineRepository)(nil)
	_ connector.ImageRepository         = (*GormImageRepository)(nil)
)
