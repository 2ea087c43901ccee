package mapping

import (
	"context"
	"strings"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"golang.org/x/text/unicode/norm"
)

// NewPartnerMapper maps a shop customer onto a local partner
func NewPartnerMapper() *Mapper {
	return NewMapper(connector.EntityPartner,
		Computed("name", personName),
		Direct("email", "email"),
		DirectBool("newsletter", "newsletter"),
		Computed("birthday", partnerBirthday),
		Direct("company", "company"),
		DirectBool("active", "active"),
		DirectInt("id_shop_group", "shop_group_id"),
		DirectInt("id_shop", "shop_id"),
		Direct("note", "comment"),
		Computed("date_add", dateField("date_add")),
		Computed("date_upd", dateField("date_upd")),
		Const("type", connector.PartnerTypeContact),
		Const("is_company", false),
		Computed("company_id", companyID),
		Computed(KeyInternalID, partnerInternalID).OnCreate(),
	)
}

// NewAddressMapper maps a shop address onto a child partner of the customer
func NewAddressMapper() *Mapper {
	return NewMapper(connector.EntityAddress,
		Computed("name", personName),
		Computed("parent_id", addressParent),
		Direct("address1", "street"),
		Direct("address2", "street2"),
		Direct("city", "city"),
		Direct("postcode", "zip"),
		Computed("country_code", addressCountry),
		Direct("phone", "phone"),
		Direct("phone_mobile", "mobile"),
		Direct("other", "comment"),
		Direct("vat_number", "vat_number"),
		Direct("alias", "alias"),
		Direct("company", "company"),
		Computed("date_add", dateField("date_add")),
		Computed("date_upd", dateField("date_upd")),
		Const("type", connector.PartnerTypeOther),
		Const("active", true),
		Computed("company_id", companyID),
	)
}

// NewManufacturerMapper maps a shop manufacturer onto a company partner
func NewManufacturerMapper() *Mapper {
	return NewMapper(connector.EntityManufacturer,
		Computed("name", func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
			return Values{"name": norm.NFC.String(strings.TrimSpace(record.String("name")))}, nil
		}),
		DirectBool("active", "active"),
		Computed("date_add", dateField("date_add")),
		Computed("date_upd", dateField("date_upd")),
		Const("type", connector.PartnerTypeContact),
		Const("is_company", true),
		Computed("company_id", companyID),
	)
}

// NewCarrierMapper maps a shop carrier onto a local delivery method
func NewCarrierMapper() *Mapper {
	return NewMapper(connector.EntityCarrier,
		Direct("name", "name"),
		DirectBool("active", "active"),
		Computed("company_id", companyID),
	)
}

// personName joins first and last name in NFC form
func personName(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	parts := make([]string, 0, 2)
	for _, key := range []string{"firstname", "lastname"} {
		if v := strings.TrimSpace(record.String(key)); v != "" {
			parts = append(parts, v)
		}
	}
	return Values{"name": norm.NFC.String(strings.Join(parts, " "))}, nil
}

func partnerBirthday(_ context.Context, _ *Env, record connector.Record) (Values, error) {
	s := record.String("birthday")
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, nil
	}
	return Values{"birthday": t}, nil
}

func partnerInternalID(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	email := strings.TrimSpace(record.String("email"))
	if !env.Backend.MatchingCustomer || email == "" {
		return nil, nil
	}
	id, ok, err := env.Lookup.PartnerByEmail(ctx, email)
	if err != nil || !ok {
		return nil, err
	}
	return Values{KeyInternalID: id}, nil
}

func addressParent(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	id, err := requireBinding(ctx, env, connector.EntityPartner, record.Int64("id_customer"))
	if err != nil {
		return nil, err
	}
	return Values{"parent_id": id}, nil
}

func addressCountry(ctx context.Context, env *Env, record connector.Record) (Values, error) {
	countryID := record.Int64("id_country")
	if countryID <= 0 {
		return nil, nil
	}
	code, err := env.Lookup.CountryCode(ctx, countryID)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil
	}
	return Values{"country_code": code}, nil
}
