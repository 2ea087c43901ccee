package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrImageNotImported is returned while the images of a combination are
// still waiting for their import job. The job is retried.
var ErrImageNotImported = errors.New("connector: combination image is not imported yet")

// ImageKey is the storage key of a product image
func ImageKey(backendID uuid.UUID, productID, imageID int64) string {
	return fmt.Sprintf("%s/products/%d/%d", backendID, productID, imageID)
}

// ImportProductImage downloads one image of a bound product, stores it and
// binds the local image.
func (imp *Importer) ImportProductImage(ctx context.Context, productID, imageID int64) (*connector.Binding, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "importer", "import_product_image",
		telemetry.WithAttribute(telemetry.SpanAttrExternalID, imageID),
	)
	defer span.End()

	templateID, err := imp.requireInternal(ctx, connector.EntityProductTemplate, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	remote, err := imp.env.WebService.ReadImage(ctx, productID, imageID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("read image %d of product %d: %w", imageID, productID, err)
	}

	key := ImageKey(imp.env.Backend.ID, productID, imageID)
	url, err := imp.env.Images.Put(ctx, key, remote.Content, remote.ContentType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("store image %s: %w", key, err)
	}

	repo := imp.env.Repos.Images()
	now := imp.env.Now()
	image := &connector.ProductImage{ID: uuid.New(), CreatedAt: now}
	internalID, bound, err := imp.env.Binder.ToInternal(ctx, connector.EntityProductImage, imageID)
	if err != nil {
		return nil, err
	}
	if bound {
		if image, err = repo.FindByID(ctx, internalID); err != nil {
			return nil, err
		}
	}
	image.TemplateID = templateID
	image.Name = remote.Name
	image.StorageKey = key
	image.URL = url
	image.ContentType = remote.ContentType
	image.UpdatedAt = now
	if err := repo.Save(ctx, image); err != nil {
		return nil, err
	}

	binding, err := imp.env.Binder.Bind(ctx, connector.EntityProductImage, imageID, image.ID)
	if err != nil {
		return nil, err
	}
	imp.env.Logger.Info("Product image imported",
		zap.Int64("product_id", productID),
		zap.Int64("image_id", imageID),
		zap.String("storage_key", key),
	)
	return binding, nil
}

// SetProductImageVariant links the images listed by each combination to
// its variant. Combinations that are not imported are skipped.
func (imp *Importer) SetProductImageVariant(ctx context.Context, combinations []int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "importer", "set_product_image_variant",
		telemetry.WithAttribute("combinations", combinations),
	)
	defer span.End()

	backend := imp.env.Backend
	repo := imp.env.Repos.Variants()
	for _, combinationID := range combinations {
		variantID, ok, err := imp.env.Binder.ToInternal(ctx, connector.EntityProductCombination, combinationID)
		if err != nil {
			return err
		}
		if !ok {
			imp.env.Logger.Warn("Combination not imported, images not linked", zap.Int64("combination_id", combinationID))
			continue
		}
		record, err := imp.env.Read(ctx, connector.EntityProductCombination, combinationID)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		imageIDs := make([]uuid.UUID, 0)
		for _, imageID := range record.AssociationIDs("images", backend.VersionKey("images")) {
			id, ok, err := imp.env.Binder.ToInternal(ctx, connector.EntityProductImage, imageID)
			if err != nil {
				return err
			}
			if !ok {
				err := fmt.Errorf("%w: image %d of combination %d", ErrImageNotImported, imageID, combinationID)
				telemetry.RecordError(span, err)
				return err
			}
			imageIDs = appendUnique(imageIDs, id)
		}
		variant, err := repo.FindByID(ctx, variantID)
		if err != nil {
			return err
		}
		variant.ImageIDs = imageIDs
		variant.UpdatedAt = imp.env.Now()
		if err := repo.Save(ctx, variant); err != nil {
			return err
		}
	}
	return nil
}
