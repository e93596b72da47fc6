package usecase

import (
	"context"
	"time"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
	"reqmarket/pkg/errors"
	"reqmarket/pkg/utils"
)

type RequestUseCase struct {
	lifecycle
	lockWindow time.Duration
}

func NewRequestUseCase(ledger repository.Ledger, clock service.Clock, notifier service.Notifier, lockWindow time.Duration) *RequestUseCase {
	return &RequestUseCase{
		lifecycle:  newLifecycle(ledger, clock, notifier),
		lockWindow: lockWindow,
	}
}

type RequestInput struct {
	Name        string
	Description string
	Images      []string
	Location    entity.Location
}

func (uc *RequestUseCase) CreateRequest(ctx context.Context, identity string, input RequestInput) (*entity.Request, error) {
	var request *entity.Request
	err := uc.execute(ctx, "create_request", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		user, err := resolveCaller(tx, identity)
		if err != nil {
			return err
		}
		if err := requireRole(user, entity.RoleBuyer); err != nil {
			return err
		}

		id, err := tx.NextID(entity.SequenceRequest)
		if err != nil {
			return err
		}

		request = &entity.Request{
			ID:          id,
			Name:        input.Name,
			Description: input.Description,
			Images:      append([]string{}, input.Images...),
			Location:    input.Location,
			BuyerID:     user.ID,
			Bids:        []entity.Bid{},
			Lifecycle:   entity.LifecyclePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.PutRequest(request); err != nil {
			return err
		}

		out.add(&entity.Event{
			Type:      entity.EventRequestCreated,
			RequestID: request.ID,
			Data:      request.Clone(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// DeleteRequest removes a request that has not received any offer yet.
// Offers that reference a deleted request are left in place.
func (uc *RequestUseCase) DeleteRequest(ctx context.Context, identity string, requestID int64) error {
	return uc.execute(ctx, "delete_request", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		user, err := resolveCaller(tx, identity)
		if err != nil {
			return err
		}
		if request.BuyerID != user.ID {
			return errors.ErrUnauthorizedBuyer
		}
		if request.Lifecycle != entity.LifecyclePending {
			return errors.ErrRequestLocked
		}

		if err := tx.DeleteRequest(request.ID); err != nil {
			return err
		}

		out.add(&entity.Event{
			Type:      entity.EventRequestRemoved,
			RequestID: request.ID,
		})
		return nil
	})
}

// MarkRequestCompleted closes a request once the lock window anchored at the
// buyer's last acceptance has run out.
func (uc *RequestUseCase) MarkRequestCompleted(ctx context.Context, identity string, requestID int64) (*entity.Request, error) {
	var request *entity.Request
	err := uc.execute(ctx, "complete_request", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		var err error
		request, err = loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		user, err := resolveCaller(tx, identity)
		if err != nil {
			return err
		}
		if err := requireRole(user, entity.RoleBuyer); err != nil {
			return err
		}
		if request.BuyerID != user.ID {
			return errors.ErrUnauthorizedBuyer
		}
		if request.Lifecycle != entity.LifecycleAcceptedByBuyer {
			return errors.ErrRequestNotAccepted
		}
		if !request.Completable(now, uc.lockWindow) {
			return errors.ErrRequestNotLocked
		}

		from := request.Lifecycle
		request.Lifecycle = entity.LifecycleCompleted
		request.UpdatedAt = now
		if err := tx.PutRequest(request); err != nil {
			return err
		}

		out.add(lifecycleChanged(request, from))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (uc *RequestUseCase) GetRequest(ctx context.Context, requestID int64) (*entity.Request, error) {
	return uc.ledger.GetRequest(ctx, requestID)
}

// GetAllRequests pages through every request in id order.
func (uc *RequestUseCase) GetAllRequests(ctx context.Context, page, limit int) ([]*entity.Request, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.ledger.ListRequests(ctx, pagination.PageSize, pagination.Offset)
}

// GetUserRequests lists the requests posted by the buyer behind identity.
func (uc *RequestUseCase) GetUserRequests(ctx context.Context, identity string) ([]*entity.Request, error) {
	user, err := uc.ledger.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return uc.ledger.ListRequestsByBuyer(ctx, user.ID)
}
