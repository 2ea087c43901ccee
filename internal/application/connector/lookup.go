package connector

import (
	"context"
	"strings"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

// lookup answers the questions mapping rules ask about local and remote
// state.
type lookup struct {
	env      *Environment
	resolver *IdentityResolver
}

func (l *lookup) TemplateCodeExists(ctx context.Context, code string) (bool, error) {
	tmpl, err := l.env.Repos.Templates().FindByCode(ctx, l.env.Backend.CompanyID, code)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, bound, err := l.env.Binder.ToExternal(ctx, connector.EntityProductTemplate, tmpl.ID)
	if err != nil {
		return false, err
	}
	return !bound, nil
}

func (l *lookup) VariantCodeExists(ctx context.Context, code string) (bool, error) {
	variant, err := l.env.Repos.Variants().FindByCode(ctx, l.env.Backend.CompanyID, code)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, bound, err := l.env.Binder.ToExternal(ctx, connector.EntityProductCombination, variant.ID)
	if err != nil {
		return false, err
	}
	return !bound, nil
}

// TaxForGroup returns the tax of a bound tax group. Unbound groups carry no
// tax; a bound group must hold exactly one active tax. Archived taxes are
// ignored.
func (l *lookup) TaxForGroup(ctx context.Context, externalGroupID int64) (*connector.Tax, error) {
	if externalGroupID <= 0 {
		return nil, nil
	}
	groupID, ok, err := l.env.Binder.ToInternal(ctx, connector.EntityTaxGroup, externalGroupID)
	if err != nil || !ok {
		return nil, err
	}
	all, err := l.env.Repos.Taxes().ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	taxes := make([]connector.Tax, 0, len(all))
	for _, tax := range all {
		if tax.Active {
			taxes = append(taxes, tax)
		}
	}
	if len(taxes) != 1 {
		name := groupID.String()
		if group, err := l.env.Repos.Taxes().FindGroupByID(ctx, groupID); err == nil {
			name = group.Name
		}
		return nil, connector.NewValidationError(connector.CodeTaxGroup, connector.ErrTaxGroupInvariant,
			"tax group %q has %d taxes", name, len(taxes))
	}
	return &taxes[0], nil
}

func (l *lookup) ResolveTemplate(ctx context.Context, record connector.Record) (uuid.UUID, bool, error) {
	return l.resolver.ResolveTemplate(ctx, record)
}

func (l *lookup) Tax(ctx context.Context, id uuid.UUID) (*connector.Tax, error) {
	return l.env.Repos.Taxes().FindByID(ctx, id)
}

func (l *lookup) Template(ctx context.Context, id uuid.UUID) (*connector.ProductTemplate, error) {
	return l.env.Repos.Templates().FindByID(ctx, id)
}

func (l *lookup) RemoteRecord(ctx context.Context, entity connector.EntityType, id int64) (connector.Record, error) {
	return l.env.Read(ctx, entity, id)
}

func (l *lookup) CountryCode(ctx context.Context, externalCountryID int64) (string, error) {
	if code, ok := l.env.countries[externalCountryID]; ok {
		return code, nil
	}
	country, err := l.env.WebService.Read(ctx, "countries", externalCountryID)
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(country.String("iso_code"))
	l.env.countries[externalCountryID] = code
	return code, nil
}

func (l *lookup) PartnerByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	partner, err := l.env.Repos.Partners().FindByEmail(ctx, l.env.Backend.CompanyID, email)
	if notFound(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	_, bound, err := l.env.Binder.ToExternal(ctx, connector.EntityPartner, partner.ID)
	if err != nil || bound {
		return uuid.Nil, false, err
	}
	return partner.ID, true, nil
}

func (l *lookup) TaxGroupByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	group, err := l.env.Repos.Taxes().FindGroupByName(ctx, l.env.Backend.CompanyID, name)
	if notFound(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	_, bound, err := l.env.Binder.ToExternal(ctx, connector.EntityTaxGroup, group.ID)
	if err != nil || bound {
		return uuid.Nil, false, err
	}
	return group.ID, true, nil
}
