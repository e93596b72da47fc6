package usecase

import (
	"context"
	"time"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
)

type StoreUseCase struct {
	lifecycle
}

func NewStoreUseCase(ledger repository.Ledger, clock service.Clock, notifier service.Notifier) *StoreUseCase {
	return &StoreUseCase{
		lifecycle: newLifecycle(ledger, clock, notifier),
	}
}

type StoreInput struct {
	Name        string
	Description string
	Phone       string
	Location    entity.Location
}

func (uc *StoreUseCase) CreateStore(ctx context.Context, identity string, input StoreInput) (*entity.Store, error) {
	var store *entity.Store
	err := uc.execute(ctx, "create_store", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		user, err := resolveCaller(tx, identity)
		if err != nil {
			return err
		}
		if err := requireRole(user, entity.RoleSeller); err != nil {
			return err
		}

		id, err := tx.NextID(entity.SequenceStore)
		if err != nil {
			return err
		}

		store = &entity.Store{
			ID:          id,
			Owner:       identity,
			Name:        input.Name,
			Description: input.Description,
			Phone:       input.Phone,
			Location:    input.Location,
			CreatedAt:   now,
		}
		if err := tx.PutStore(store); err != nil {
			return err
		}

		out.add(&entity.Event{
			Type: entity.EventStoreCreated,
			Data: entity.StoreEventData{
				StoreID:  store.ID,
				Name:     store.Name,
				Location: store.Location,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// GetUserStores lists the stores owned by identity, oldest first.
func (uc *StoreUseCase) GetUserStores(ctx context.Context, identity string) ([]*entity.Store, error) {
	return uc.ledger.ListStoresByOwner(ctx, identity)
}
