package connector

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LegacyVersion is the last PrestaShop release that keys association
// entries by the plural relation name.
const LegacyVersion = "1.6.0.9"

// MatchingStrategy selects the field used to attach an incoming product to
// an existing local one.
type MatchingStrategy string

const (
	MatchingByReference MatchingStrategy = "reference"
	MatchingByBarcode   MatchingStrategy = "barcode"
)

// IsValid returns true if the strategy is known
func (m MatchingStrategy) IsValid() bool {
	switch m {
	case MatchingByReference, MatchingByBarcode:
		return true
	}
	return false
}

// String returns the string representation
func (m MatchingStrategy) String() string {
	return string(m)
}

// Language is a shop language. ExternalID is the PrestaShop id_lang.
type Language struct {
	ExternalID int64  `json:"external_id"`
	Code       string `json:"code"`
}

// versionKeys maps plural association names to the element name used by
// modern shops. Keys missing from the table are used as-is.
var versionKeys = map[string]string{
	"combinations":          "combination",
	"product_features":      "product_feature",
	"product_option_values": "product_option_value",
	"images":                "image",
	"tax":                   "taxes",
	"categories":            "category",
	"stock_availables":      "stock_available",
}

var (
	ErrBackendInvalidName     = errors.New("connector: backend name cannot be empty")
	ErrBackendInvalidURL      = errors.New("connector: backend URL cannot be empty")
	ErrBackendInvalidCompany  = errors.New("connector: backend company cannot be empty")
	ErrBackendInvalidMatching = errors.New("connector: invalid product matching strategy")
)

// Backend is the configuration of one remote shop.
type Backend struct {
	ID      uuid.UUID
	Name    string
	URL     string
	APIKey  string
	Version string
	// CompanyID scopes every local lookup made for this backend
	CompanyID uuid.UUID
	// TaxesIncluded is true when local sale prices include taxes
	TaxesIncluded bool
	// MatchingProductTemplate enables attaching new remote products to
	// existing unbound local ones
	MatchingProductTemplate bool
	MatchingProductCh       MatchingStrategy
	// MatchingCustomer enables attaching new customers by email
	MatchingCustomer bool
	// Languages lists shop languages, main language first
	Languages           []Language
	ImportProductsSince *time.Time
	ImportPartnersSince *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewBackend creates a backend with reference matching and no languages
func NewBackend(name, url, apiKey, version string, companyID uuid.UUID) (*Backend, error) {
	now := time.Now()
	b := &Backend{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(name),
		URL:               strings.TrimRight(url, "/"),
		APIKey:            apiKey,
		Version:           version,
		CompanyID:         companyID,
		MatchingProductCh: MatchingByReference,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate validates the backend
func (b *Backend) Validate() error {
	if b.Name == "" {
		return ErrBackendInvalidName
	}
	if b.URL == "" {
		return ErrBackendInvalidURL
	}
	if b.CompanyID == uuid.Nil {
		return ErrBackendInvalidCompany
	}
	if !b.MatchingProductCh.IsValid() {
		return ErrBackendInvalidMatching
	}
	return nil
}

// VersionKey returns the element name under which association entries are
// listed for the backend's shop version.
func (b *Backend) VersionKey(key string) string {
	if b.Version == LegacyVersion {
		return key
	}
	if converted, ok := versionKeys[key]; ok {
		return converted
	}
	return key
}

// MainLanguage returns the first configured language
func (b *Backend) MainLanguage() (Language, bool) {
	if len(b.Languages) == 0 {
		return Language{}, false
	}
	return b.Languages[0], true
}

// LanguageCode returns the code of a remote language id, or "" if unknown
func (b *Backend) LanguageCode(externalID int64) string {
	for _, lang := range b.Languages {
		if lang.ExternalID == externalID {
			return lang.Code
		}
	}
	return ""
}

// SinceFor returns the last import timestamp tracked for an entity type
func (b *Backend) SinceFor(entity EntityType) *time.Time {
	switch entity {
	case EntityProductTemplate:
		return b.ImportProductsSince
	case EntityPartner:
		return b.ImportPartnersSince
	}
	return nil
}

// MarkImported records the start time of the last periodic import
func (b *Backend) MarkImported(entity EntityType, at time.Time) {
	switch entity {
	case EntityProductTemplate:
		b.ImportProductsSince = &at
	case EntityPartner:
		b.ImportPartnersSince = &at
	}
	b.UpdatedAt = time.Now()
}
