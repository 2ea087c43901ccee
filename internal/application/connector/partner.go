package connector

import (
	"context"
	"strconv"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/google/uuid"
)

// writePartner creates or updates a partner from mapped values
func writePartner(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Partners()
	now := imp.env.Now()

	partner := &connector.Partner{ID: uuid.New(), Active: true, CreatedAt: now}
	if id != uuid.Nil {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		partner = existing
	}
	if err := result.Values.Decode(partner); err != nil {
		return uuid.Nil, err
	}
	partner.UpdatedAt = now
	if err := repo.Save(ctx, partner); err != nil {
		return uuid.Nil, err
	}
	return partner.ID, nil
}

// partnerHandler imports shop customers
type partnerHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newPartnerHandler() *partnerHandler {
	return &partnerHandler{mapper: mapping.NewPartnerMapper()}
}

func (h *partnerHandler) Entity() connector.EntityType { return connector.EntityPartner }

func (h *partnerHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *partnerHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	return writePartner(ctx, imp, id, result)
}

// AfterImport schedules the import of the customer addresses
func (h *partnerHandler) AfterImport(_ context.Context, imp *Importer, binding *connector.Binding, _ connector.Record) error {
	customerID := strconv.FormatInt(binding.ExternalID, 10)
	job := connector.NewJob(connector.JobImportBatch, imp.env.Backend.ID, connector.JobArgs{
		Entity:  connector.EntityAddress,
		Filters: connector.Filters{"filter[id_customer]": customerID},
	}).WithIdentity(connector.EntityAddress, customerID)
	imp.env.Schedule(job)
	return nil
}

// addressHandler imports customer addresses as child partners
type addressHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newAddressHandler() *addressHandler {
	return &addressHandler{mapper: mapping.NewAddressMapper()}
}

func (h *addressHandler) Entity() connector.EntityType { return connector.EntityAddress }

func (h *addressHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *addressHandler) ImportDependencies(ctx context.Context, imp *Importer, record connector.Record) error {
	return imp.ImportDependency(ctx, connector.EntityPartner, record.Int64("id_customer"), false)
}

func (h *addressHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	return writePartner(ctx, imp, id, result)
}

// manufacturerHandler imports manufacturers as company partners
type manufacturerHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newManufacturerHandler() *manufacturerHandler {
	return &manufacturerHandler{mapper: mapping.NewManufacturerMapper()}
}

func (h *manufacturerHandler) Entity() connector.EntityType { return connector.EntityManufacturer }

func (h *manufacturerHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *manufacturerHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	return writePartner(ctx, imp, id, result)
}

// carrierHandler imports carriers as delivery methods
type carrierHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newCarrierHandler() *carrierHandler {
	return &carrierHandler{mapper: mapping.NewCarrierMapper()}
}

func (h *carrierHandler) Entity() connector.EntityType { return connector.EntityCarrier }

func (h *carrierHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *carrierHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Partners()
	now := imp.env.Now()

	carrier := &connector.Carrier{ID: uuid.New(), CreatedAt: now}
	if id != uuid.Nil {
		existing, err := repo.FindCarrierByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		carrier = existing
	}
	if err := result.Values.Decode(carrier); err != nil {
		return uuid.Nil, err
	}
	carrier.UpdatedAt = now
	if err := repo.SaveCarrier(ctx, carrier); err != nil {
		return uuid.Nil, err
	}
	return carrier.ID, nil
}
