package dto

import (
	"time"

	"github.com/binovo/connector-prestashop/internal/application/connector"
	domain "github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidators adds the connector tags to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("entity", func(fl validator.FieldLevel) bool {
		return domain.EntityType(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("matching", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.MatchingStrategy(s).IsValid()
	})
}

// BackendURI binds the backend id path parameter
type BackendURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// BindingURI binds the path of a binding lookup
type BindingURI struct {
	ID         string `uri:"id" binding:"required,uuid"`
	Entity     string `uri:"entity" binding:"required,entity"`
	ExternalID int64  `uri:"external_id" binding:"required,gt=0"`
}

// LanguageRequest is a shop language
type LanguageRequest struct {
	ExternalID int64  `json:"external_id" binding:"required,gt=0"`
	Code       string `json:"code" binding:"required"`
}

// CreateBackendRequest registers a shop
type CreateBackendRequest struct {
	Name                    string            `json:"name" binding:"required,max=100"`
	URL                     string            `json:"url" binding:"required,url"`
	APIKey                  string            `json:"api_key" binding:"required"`
	Version                 string            `json:"version" binding:"required"`
	CompanyID               string            `json:"company_id" binding:"required,uuid"`
	TaxesIncluded           bool              `json:"taxes_included"`
	MatchingProductTemplate bool              `json:"matching_product_template"`
	MatchingProductCh       string            `json:"matching_product_ch" binding:"omitempty,matching"`
	MatchingCustomer        bool              `json:"matching_customer"`
	Languages               []LanguageRequest `json:"languages" binding:"dive"`
}

// ToInput converts the request to the service input
func (r CreateBackendRequest) ToInput() connector.CreateBackendInput {
	languages := make([]domain.Language, 0, len(r.Languages))
	for _, l := range r.Languages {
		languages = append(languages, domain.Language{ExternalID: l.ExternalID, Code: l.Code})
	}
	return connector.CreateBackendInput{
		Name:                    r.Name,
		URL:                     r.URL,
		APIKey:                  r.APIKey,
		Version:                 r.Version,
		CompanyID:               uuid.MustParse(r.CompanyID),
		TaxesIncluded:           r.TaxesIncluded,
		MatchingProductTemplate: r.MatchingProductTemplate,
		MatchingProductCh:       domain.MatchingStrategy(r.MatchingProductCh),
		MatchingCustomer:        r.MatchingCustomer,
		Languages:               languages,
	}
}

// ImportRequest enqueues the import of one remote record
type ImportRequest struct {
	Entity     string `json:"entity" binding:"required,entity"`
	ExternalID int64  `json:"external_id" binding:"required,gt=0"`
	Force      bool   `json:"force"`
}

// BatchImportRequest imports the records matching filters. Direct runs the
// import synchronously instead of enqueuing it.
type BatchImportRequest struct {
	Entity  string            `json:"entity" binding:"required,entity"`
	Filters map[string]string `json:"filters"`
	Direct  bool              `json:"direct"`
}

// ExportRequest enqueues the export of one local record
type ExportRequest struct {
	Entity     string `json:"entity" binding:"required,entity"`
	InternalID string `json:"internal_id" binding:"required,uuid"`
}

// BackendResponse is a backend without its API key
type BackendResponse struct {
	ID                      uuid.UUID         `json:"id"`
	Name                    string            `json:"name"`
	URL                     string            `json:"url"`
	Version                 string            `json:"version"`
	CompanyID               uuid.UUID         `json:"company_id"`
	TaxesIncluded           bool              `json:"taxes_included"`
	MatchingProductTemplate bool              `json:"matching_product_template"`
	MatchingProductCh       string            `json:"matching_product_ch"`
	MatchingCustomer        bool              `json:"matching_customer"`
	Languages               []domain.Language `json:"languages"`
	ImportProductsSince     *time.Time        `json:"import_products_since,omitempty"`
	ImportPartnersSince     *time.Time        `json:"import_partners_since,omitempty"`
}

// NewBackendResponse converts a backend
func NewBackendResponse(b *domain.Backend) BackendResponse {
	return BackendResponse{
		ID:                      b.ID,
		Name:                    b.Name,
		URL:                     b.URL,
		Version:                 b.Version,
		CompanyID:               b.CompanyID,
		TaxesIncluded:           b.TaxesIncluded,
		MatchingProductTemplate: b.MatchingProductTemplate,
		MatchingProductCh:       b.MatchingProductCh.String(),
		MatchingCustomer:        b.MatchingCustomer,
		Languages:               b.Languages,
		ImportProductsSince:     b.ImportProductsSince,
		ImportPartnersSince:     b.ImportPartnersSince,
	}
}

// JobResponse acknowledges an enqueued job. Accepted is false when an
// identical job was already pending.
type JobResponse struct {
	JobID    uuid.UUID `json:"job_id"`
	Name     string    `json:"name"`
	Accepted bool      `json:"accepted"`
}

// BindingResponse is a binding
type BindingResponse struct {
	ID         uuid.UUID  `json:"id"`
	BackendID  uuid.UUID  `json:"backend_id"`
	Entity     string     `json:"entity"`
	ExternalID int64      `json:"external_id"`
	InternalID uuid.UUID  `json:"internal_id"`
	SyncDate   *time.Time `json:"sync_date,omitempty"`
}

// NewBindingResponse converts a binding
func NewBindingResponse(b *domain.Binding) BindingResponse {
	return BindingResponse{
		ID:         b.ID,
		BackendID:  b.BackendID,
		Entity:     b.EntityType.String(),
		ExternalID: b.ExternalID,
		InternalID: b.InternalID,
		SyncDate:   b.SyncDate,
	}
}
