package connector

import (
	"context"
	"errors"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityResolver attaches remote products without binding to existing
// local products instead of creating duplicates.
type IdentityResolver struct {
	env *Environment
}

// NewIdentityResolver creates a resolver for one environment
func NewIdentityResolver(env *Environment) *IdentityResolver {
	return &IdentityResolver{env: env}
}

// ResolveTemplate returns the unbound local template a remote product
// matches. Products with combinations match through their variants; more
// than one candidate template is a fatal error.
func (r *IdentityResolver) ResolveTemplate(ctx context.Context, record connector.Record) (uuid.UUID, bool, error) {
	backend := r.env.Backend
	combinations := record.AssociationIDs("combinations", backend.VersionKey("combinations"))
	if len(combinations) > 0 {
		return r.resolveByCombinations(ctx, record.ID(), combinations)
	}

	code := mapping.MatchingCode(backend.MatchingProductCh, record)
	if code == "" {
		return uuid.Nil, false, nil
	}
	templates, err := r.env.Repos.Templates().FindMatching(ctx, backend.CompanyID, backend.MatchingProductCh, code, 0)
	if err != nil {
		return uuid.Nil, false, err
	}
	candidates := make([]uuid.UUID, 0, len(templates))
	for _, t := range templates {
		bound, err := r.bound(ctx, connector.EntityProductTemplate, t.ID)
		if err != nil {
			return uuid.Nil, false, err
		}
		if !bound {
			candidates = append(candidates, t.ID)
		}
	}
	if len(candidates) == 0 {
		return uuid.Nil, false, nil
	}
	if len(candidates) > 1 {
		r.env.Logger.Warn("Several local templates match remote product, using the first one",
			zap.Int64("external_id", record.ID()),
			zap.String("code", code),
			zap.Int("candidates", len(candidates)),
		)
	}
	return candidates[0], true, nil
}

func (r *IdentityResolver) resolveByCombinations(ctx context.Context, productID int64, combinations []int64) (uuid.UUID, bool, error) {
	backend := r.env.Backend
	found := make(map[uuid.UUID]bool)
	var match uuid.UUID
	for _, id := range combinations {
		combination, err := r.env.Read(ctx, connector.EntityProductCombination, id)
		if err != nil {
			return uuid.Nil, false, err
		}
		code := mapping.MatchingCode(backend.MatchingProductCh, combination)
		if code == "" {
			continue
		}
		variants, err := r.env.Repos.Variants().FindMatching(ctx, backend.CompanyID, backend.MatchingProductCh, code)
		if err != nil {
			return uuid.Nil, false, err
		}
		for _, v := range variants {
			if found[v.TemplateID] {
				continue
			}
			bound, err := r.bound(ctx, connector.EntityProductTemplate, v.TemplateID)
			if err != nil {
				return uuid.Nil, false, err
			}
			if bound {
				continue
			}
			found[v.TemplateID] = true
			match = v.TemplateID
		}
	}
	switch len(found) {
	case 0:
		return uuid.Nil, false, nil
	case 1:
		return match, true, nil
	}
	return uuid.Nil, false, connector.NewValidationError(connector.CodeAmbiguousMatch, connector.ErrAmbiguousMatch,
		"product %d: combinations match %d local templates", productID, len(found))
}

// ResolveVariant returns the unbound variant of a template matching a
// remote combination.
func (r *IdentityResolver) ResolveVariant(ctx context.Context, templateID uuid.UUID, record connector.Record) (uuid.UUID, bool, error) {
	backend := r.env.Backend
	code := mapping.MatchingCode(backend.MatchingProductCh, record)
	if code == "" {
		return uuid.Nil, false, nil
	}
	variants, err := r.env.Repos.Variants().FindMatching(ctx, backend.CompanyID, backend.MatchingProductCh, code)
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, v := range variants {
		if v.TemplateID != templateID {
			continue
		}
		bound, err := r.bound(ctx, connector.EntityProductCombination, v.ID)
		if err != nil {
			return uuid.Nil, false, err
		}
		if !bound {
			return v.ID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (r *IdentityResolver) bound(ctx context.Context, entity connector.EntityType, id uuid.UUID) (bool, error) {
	_, ok, err := r.env.Binder.ToExternal(ctx, entity, id)
	return ok, err
}

// notFound reports a repository miss
func notFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
