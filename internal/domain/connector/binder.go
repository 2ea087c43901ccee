package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
)

// Binder translates ids between a backend and the local database.
type Binder interface {
	// ToInternal returns the local id bound to a remote id, false if unbound
	ToInternal(ctx context.Context, entity EntityType, externalID int64) (uuid.UUID, bool, error)
	// ToExternal returns the remote id bound to a local id, false if unbound
	ToExternal(ctx context.Context, entity EntityType, internalID uuid.UUID) (int64, bool, error)
	// Bind creates or refreshes the binding between both ids
	Bind(ctx context.Context, entity EntityType, externalID int64, internalID uuid.UUID) (*Binding, error)
}

// RepositoryBinder implements Binder on top of a BindingRepository.
type RepositoryBinder struct {
	backendID uuid.UUID
	repo      BindingRepository
	now       func() time.Time
}

// NewRepositoryBinder creates a binder scoped to one backend
func NewRepositoryBinder(backendID uuid.UUID, repo BindingRepository, now func() time.Time) *RepositoryBinder {
	if now == nil {
		now = time.Now
	}
	return &RepositoryBinder{backendID: backendID, repo: repo, now: now}
}

// ToInternal returns the local id bound to a remote id
func (b *RepositoryBinder) ToInternal(ctx context.Context, entity EntityType, externalID int64) (uuid.UUID, bool, error) {
	if externalID <= 0 {
		return uuid.Nil, false, nil
	}
	binding, err := b.repo.FindByExternalID(ctx, b.backendID, entity, externalID)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("binder: %s %d: %w", entity, externalID, err)
	}
	return binding.InternalID, true, nil
}

// ToExternal returns the remote id bound to a local id
func (b *RepositoryBinder) ToExternal(ctx context.Context, entity EntityType, internalID uuid.UUID) (int64, bool, error) {
	binding, err := b.repo.FindByInternalID(ctx, b.backendID, entity, internalID)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("binder: %s %s: %w", entity, internalID, err)
	}
	return binding.ExternalID, true, nil
}

// Bind creates the binding on first sync and touches it afterwards. An
// existing binding of the remote id is pointed at internalID.
func (b *RepositoryBinder) Bind(ctx context.Context, entity EntityType, externalID int64, internalID uuid.UUID) (*Binding, error) {
	binding, err := b.repo.FindByExternalID(ctx, b.backendID, entity, externalID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		binding, err = NewBinding(b.backendID, entity, externalID, internalID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("binder: %s %d: %w", entity, externalID, err)
	default:
		binding.InternalID = internalID
	}
	binding.Touch(b.now())
	if err := b.repo.Save(ctx, binding); err != nil {
		return nil, fmt.Errorf("binder: save %s %d: %w", entity, externalID, err)
	}
	return binding, nil
}
