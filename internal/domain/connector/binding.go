package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which kind of local record a binding points to.
type EntityType string

const (
	EntityProductTemplate        EntityType = "product.template"
	EntityProductCombination     EntityType = "product.combination"
	EntityCombinationOption      EntityType = "product.combination.option"
	EntityCombinationOptionValue EntityType = "product.combination.option.value"
	EntityProductImage           EntityType = "product.image"
	EntityTax                    EntityType = "account.tax"
	EntityTaxGroup               EntityType = "account.tax.group"
	EntityPartner                EntityType = "res.partner"
	EntityAddress                EntityType = "address"
	EntityCarrier                EntityType = "delivery.carrier"
	EntityManufacturer           EntityType = "manufacturer"
)

// entityResources maps entity types to web-service resources and the
// element name used when writing them.
var entityResources = map[EntityType]struct {
	resource string
	node     string
}{
	EntityProductTemplate:        {"products", "product"},
	EntityProductCombination:     {"combinations", "combination"},
	EntityCombinationOption:      {"product_options", "product_option"},
	EntityCombinationOptionValue: {"product_option_values", "product_option_value"},
	EntityProductImage:           {"images/products", "image"},
	EntityTax:                    {"taxes", "tax"},
	EntityTaxGroup:               {"tax_rule_groups", "tax_rule_group"},
	EntityPartner:                {"customers", "customer"},
	EntityAddress:                {"addresses", "address"},
	EntityCarrier:                {"carriers", "carrier"},
	EntityManufacturer:           {"manufacturers", "manufacturer"},
}

// AllEntityTypes returns all entity types
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityProductTemplate,
		EntityProductCombination,
		EntityCombinationOption,
		EntityCombinationOptionValue,
		EntityProductImage,
		EntityTax,
		EntityTaxGroup,
		EntityPartner,
		EntityAddress,
		EntityCarrier,
		EntityManufacturer,
	}
}

// ParseEntityType converts a string into an EntityType
func ParseEntityType(s string) (EntityType, error) {
	e := EntityType(s)
	if !e.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
	}
	return e, nil
}

// IsValid returns true if the entity type is known
func (e EntityType) IsValid() bool {
	_, ok := entityResources[e]
	return ok
}

// String returns the string representation
func (e EntityType) String() string {
	return string(e)
}

// Resource returns the web-service resource name
func (e EntityType) Resource() string {
	return entityResources[e].resource
}

// Node returns the element name used in create/write payloads
func (e EntityType) Node() string {
	return entityResources[e].node
}

// DefaultFilters returns filters every search on the entity must carry
func (e EntityType) DefaultFilters() Filters {
	if e == EntityTaxGroup {
		return Filters{"filter[deleted]": "0"}
	}
	return Filters{}
}

// ---------------------------------------------------------------------------
// Binding Entity
// ---------------------------------------------------------------------------

var (
	ErrBindingInvalidBackend    = errors.New("connector: binding backend cannot be empty")
	ErrBindingInvalidEntity     = errors.New("connector: binding entity type is invalid")
	ErrBindingInvalidExternalID = errors.New("connector: binding external id must be positive")
	ErrBindingInvalidInternalID = errors.New("connector: binding internal id cannot be empty")
)

// Binding links one remote record to one local record for a backend.
// (BackendID, EntityType, ExternalID) and (BackendID, EntityType, InternalID)
// are both unique.
type Binding struct {
	ID         uuid.UUID
	BackendID  uuid.UUID
	EntityType EntityType
	ExternalID int64
	InternalID uuid.UUID
	// SyncDate is when the local record was last written from or to the shop
	SyncDate  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBinding creates a binding
func NewBinding(backendID uuid.UUID, entity EntityType, externalID int64, internalID uuid.UUID) (*Binding, error) {
	b := &Binding{
		ID:         uuid.New(),
		BackendID:  backendID,
		EntityType: entity,
		ExternalID: externalID,
		InternalID: internalID,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// Validate validates the binding
func (b *Binding) Validate() error {
	if b.BackendID == uuid.Nil {
		return ErrBindingInvalidBackend
	}
	if !b.EntityType.IsValid() {
		return ErrBindingInvalidEntity
	}
	if b.ExternalID <= 0 {
		return ErrBindingInvalidExternalID
	}
	if b.InternalID == uuid.Nil {
		return ErrBindingInvalidInternalID
	}
	return nil
}

// Touch records a successful synchronization
func (b *Binding) Touch(at time.Time) {
	b.SyncDate = &at
	b.UpdatedAt = at
}

// IsUpToDate reports whether the binding was synced at or after the remote
// modification date.
func (b *Binding) IsUpToDate(remoteUpdatedAt time.Time) bool {
	if b.SyncDate == nil || remoteUpdatedAt.IsZero() {
		return false
	}
	return !b.SyncDate.Before(remoteUpdatedAt)
}

// BindingRepository persists bindings. Lookups return shared.ErrNotFound
// when no binding exists.
type BindingRepository interface {
	FindByExternalID(ctx context.Context, backendID uuid.UUID, entity EntityType, externalID int64) (*Binding, error)
	FindByInternalID(ctx context.Context, backendID uuid.UUID, entity EntityType, internalID uuid.UUID) (*Binding, error)
	ListByBackend(ctx context.Context, backendID uuid.UUID, entity EntityType) ([]Binding, error)
	Save(ctx context.Context, binding *Binding) error
}
