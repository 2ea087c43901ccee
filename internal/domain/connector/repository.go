package connector

import (
	"context"

	"github.com/google/uuid"
)

// Local repositories. Find methods return shared.ErrNotFound when nothing
// matches; list methods return an empty slice.

// BackendRepository persists backend configurations
type BackendRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Backend, error)
	List(ctx context.Context) ([]Backend, error)
	Save(ctx context.Context, backend *Backend) error
}

// TemplateRepository persists product templates
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductTemplate, error)
	// FindByCode matches default_code including inactive templates
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*ProductTemplate, error)
	// FindMatching looks up non deleted templates by reference or barcode.
	// limit <= 0 returns every match.
	FindMatching(ctx context.Context, companyID uuid.UUID, field MatchingStrategy, value string, limit int) ([]ProductTemplate, error)
	Save(ctx context.Context, template *ProductTemplate) error
}

// VariantRepository persists product variants
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*ProductVariant, error)
	FindMatching(ctx context.Context, companyID uuid.UUID, field MatchingStrategy, value string) ([]ProductVariant, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]ProductVariant, error)
	Save(ctx context.Context, variant *ProductVariant) error
}

// AttributeRepository persists attributes and their values
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	Save(ctx context.Context, attribute *Attribute) error
	FindValueByID(ctx context.Context, id uuid.UUID) (*AttributeValue, error)
	SaveValue(ctx context.Context, value *AttributeValue) error
}

// AttributeLineRepository persists template attribute lines
type AttributeLineRepository interface {
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]AttributeLine, error)
	Save(ctx context.Context, line *AttributeLine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository persists product images
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)
	Save(ctx context.Context, image *ProductImage) error
}

// TaxRepository persists taxes and tax groups
type TaxRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tax, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Tax, error)
	Save(ctx context.Context, tax *Tax) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*TaxGroup, error)
	FindGroupByName(ctx context.Context, companyID uuid.UUID, name string) (*TaxGroup, error)
	SaveGroup(ctx context.Context, group *TaxGroup) error
}

// PartnerRepository persists partners and carriers
type PartnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Partner, error)
	Save(ctx context.Context, partner *Partner) error
	FindCarrierByID(ctx context.Context, id uuid.UUID) (*Carrier, error)
	SaveCarrier(ctx context.Context, carrier *Carrier) error
}

// Repositories gives access to every local repository within one transaction
type Repositories interface {
	Bindings() BindingRepository
	Templates() TemplateRepository
	Variants() VariantRepository
	Attributes() AttributeRepository
	AttributeLines() AttributeLineRepository
	Images() ImageRepository
	Taxes() TaxRepository
	Partners() PartnerRepository
}

// TransactionScope runs fn inside one database transaction. fn's error
// rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
