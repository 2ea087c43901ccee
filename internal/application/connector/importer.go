package connector

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler adapts the import flow to one entity type.
type Handler interface {
	Entity() connector.EntityType
	Mapper() *mapping.Mapper
	// ImportDependencies imports the records the mapping needs bound
	ImportDependencies(ctx context.Context, imp *Importer, record connector.Record) error
	// Write creates the local record when id is uuid.Nil, updates it
	// otherwise, and returns its id
	Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error)
	// AfterImport runs once the record is persisted and bound
	AfterImport(ctx context.Context, imp *Importer, binding *connector.Binding, record connector.Record) error
}

// resolvingHandler is implemented by handlers that can attach a new remote
// record to an existing local one after mapping.
type resolvingHandler interface {
	Resolve(ctx context.Context, imp *Importer, record connector.Record, result *mapping.Result) (uuid.UUID, bool, error)
}

// baseHandler provides no-op hooks
type baseHandler struct{}

func (baseHandler) ImportDependencies(context.Context, *Importer, connector.Record) error {
	return nil
}

func (baseHandler) AfterImport(context.Context, *Importer, *connector.Binding, connector.Record) error {
	return nil
}

// Importer imports remote records with their dependencies.
type Importer struct {
	env      *Environment
	resolver *IdentityResolver
	lookup   *lookup
	handlers map[connector.EntityType]Handler
}

// NewImporter creates an importer with a handler for every importable entity
func NewImporter(env *Environment) *Importer {
	resolver := NewIdentityResolver(env)
	imp := &Importer{
		env:      env,
		resolver: resolver,
		lookup:   &lookup{env: env, resolver: resolver},
		handlers: make(map[connector.EntityType]Handler),
	}
	for _, h := range []Handler{
		newTemplateHandler(),
		newCombinationHandler(),
		newOptionHandler(),
		newOptionValueHandler(),
		newTaxGroupHandler(),
		newPartnerHandler(),
		newAddressHandler(),
		newManufacturerHandler(),
		newCarrierHandler(),
	} {
		imp.handlers[h.Entity()] = h
	}
	return imp
}

// Environment returns the environment the importer works in
func (imp *Importer) Environment() *Environment {
	return imp.env
}

// Importable reports whether entity has an import handler
func (imp *Importer) Importable(entity connector.EntityType) bool {
	_, ok := imp.handlers[entity]
	return ok
}

// Import reads one remote record and creates or updates its local
// counterpart. Records not modified since their last sync are skipped
// unless force is set. The binding is returned in both cases.
func (imp *Importer) Import(ctx context.Context, entity connector.EntityType, externalID int64, force bool) (*connector.Binding, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "importer", "import_record",
		telemetry.WithAttribute(telemetry.SpanAttrEntity, entity.String()),
		telemetry.WithAttribute(telemetry.SpanAttrExternalID, externalID),
	)
	defer span.End()

	binding, err := imp.importRecord(ctx, entity, externalID, force)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInternalID, binding.InternalID.String())
	return binding, nil
}

func (imp *Importer) importRecord(ctx context.Context, entity connector.EntityType, externalID int64, force bool) (*connector.Binding, error) {
	handler, ok := imp.handlers[entity]
	if !ok {
		return nil, connector.NewValidationError(connector.CodeValidation, connector.ErrUnknownEntity,
			"%s cannot be imported", entity)
	}
	logger := imp.env.Logger.With(zap.String("entity", entity.String()), zap.Int64("external_id", externalID))

	record, err := imp.env.Read(ctx, entity, externalID)
	if err != nil {
		return nil, err
	}

	binding, err := imp.env.Repos.Bindings().FindByExternalID(ctx, imp.env.Backend.ID, entity, externalID)
	if err != nil && !notFound(err) {
		return nil, fmt.Errorf("import %s %d: %w", entity, externalID, err)
	}
	if notFound(err) {
		binding = nil
	}
	if binding != nil && !force {
		if updated, ok := record.Time("date_upd"); ok && binding.IsUpToDate(updated) {
			logger.Debug("Record already up to date, skipped")
			return binding, nil
		}
	}

	if err := handler.ImportDependencies(ctx, imp, record); err != nil {
		return nil, err
	}

	create := binding == nil
	result, err := handler.Mapper().Map(ctx, imp.env.mappingEnv(imp.lookup), record, create)
	if err != nil {
		return nil, err
	}

	internalID := uuid.Nil
	switch {
	case binding != nil:
		internalID = binding.InternalID
	default:
		if id, ok := result.Values.InternalID(); ok {
			internalID = id
		} else if r, ok := handler.(resolvingHandler); ok {
			id, found, err := r.Resolve(ctx, imp, record, result)
			if err != nil {
				return nil, err
			}
			if found {
				internalID = id
			}
		}
		if internalID != uuid.Nil {
			logger.Info("Remote record attached to existing local record",
				zap.String("internal_id", internalID.String()))
		}
	}

	internalID, err = handler.Write(ctx, imp, internalID, result)
	if err != nil {
		return nil, fmt.Errorf("import %s %d: write: %w", entity, externalID, err)
	}
	binding, err = imp.env.Binder.Bind(ctx, entity, externalID, internalID)
	if err != nil {
		return nil, err
	}

	if err := handler.AfterImport(ctx, imp, binding, record); err != nil {
		return nil, err
	}
	logger.Info("Record imported",
		zap.String("internal_id", internalID.String()),
		zap.Bool("created", create),
	)
	return binding, nil
}

// ImportDependency imports a record another record depends on. Unless
// always is set, a record that is already bound is left alone.
func (imp *Importer) ImportDependency(ctx context.Context, entity connector.EntityType, externalID int64, always bool) error {
	if externalID <= 0 {
		return nil
	}
	if !always {
		_, bound, err := imp.env.Binder.ToInternal(ctx, entity, externalID)
		if err != nil {
			return err
		}
		if bound {
			return nil
		}
	}
	_, err := imp.Import(ctx, entity, externalID, false)
	return err
}

// requireInternal returns the local id of a bound remote record
func (imp *Importer) requireInternal(ctx context.Context, entity connector.EntityType, externalID int64) (uuid.UUID, error) {
	id, ok, err := imp.env.Binder.ToInternal(ctx, entity, externalID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, connector.NewValidationError(connector.CodeMissingBinding, connector.ErrMissingBinding,
			"%s %d is not imported", entity, externalID)
	}
	return id, nil
}

// applyTranslations stores translated values on a local record
func applyTranslations(target connector.Translations, result *mapping.Result) {
	for lang, values := range result.Translations {
		for field, value := range values {
			target.Set(lang, field, fmt.Sprint(value))
		}
	}
}
