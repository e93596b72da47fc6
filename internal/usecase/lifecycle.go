package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
	"reqmarket/pkg/errors"
	"reqmarket/pkg/logger"
)

// lifecycle is shared by the marketplace use cases: it runs one operation as a
// single ledger transaction and publishes the collected events after commit.
type lifecycle struct {
	ledger   repository.Ledger
	clock    service.Clock
	notifier service.Notifier
}

func newLifecycle(ledger repository.Ledger, clock service.Clock, notifier service.Notifier) lifecycle {
	if clock == nil {
		clock = service.SystemClock{}
	}
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return lifecycle{
		ledger:   ledger,
		clock:    clock,
		notifier: notifier,
	}
}

type outbox struct {
	events []*entity.Event
}

func (o *outbox) add(event *entity.Event) {
	o.events = append(o.events, event)
}

// execute reads the clock once; fn sees the same now on every retry.
func (l *lifecycle) execute(ctx context.Context, op, actor string, fn func(tx repository.LedgerTx, now time.Time, out *outbox) error) error {
	now := l.clock.Now()
	out := &outbox{}

	err := l.ledger.RunTransaction(ctx, func(ctx context.Context, tx repository.LedgerTx) error {
		out.events = out.events[:0]
		return fn(tx, now, out)
	})
	if err != nil {
		if errors.IsClientError(err) {
			logger.Debug("%s rejected for %s: %v", op, actor, err)
		} else {
			logger.LogOperationError(op, actor, err)
		}
		return err
	}

	for _, event := range out.events {
		event.ID = uuid.New().String()
		event.Actor = actor
		event.OccurredAt = now
		l.notifier.Notify(ctx, event)
	}
	return nil
}

func resolveCaller(tx repository.LedgerTx, identity string) (*entity.User, error) {
	if identity == "" {
		return nil, errors.ErrInvalidUser
	}
	user, err := tx.GetUser(identity)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrInvalidUser
		}
		return nil, err
	}
	return user, nil
}

func requireRole(user *entity.User, role entity.Role) error {
	if user.Role == role {
		return nil
	}
	if role == entity.RoleSeller {
		return errors.ErrOnlySellersAllowed
	}
	return errors.ErrOnlyBuyersAllowed
}

func loadRequest(tx repository.LedgerTx, id int64) (*entity.Request, error) {
	request, err := tx.GetRequest(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrInvalidRequest
		}
		return nil, err
	}
	return request, nil
}

func loadOffer(tx repository.LedgerTx, id int64) (*entity.Offer, error) {
	offer, err := tx.GetOffer(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrInvalidOffer
		}
		return nil, err
	}
	return offer, nil
}

func lifecycleChanged(request *entity.Request, from entity.Lifecycle) *entity.Event {
	return &entity.Event{
		Type:      entity.EventRequestLifecycleChanged,
		RequestID: request.ID,
		Data: entity.LifecycleChangedData{
			From:   from,
			To:     request.Lifecycle,
			ToCode: request.Lifecycle.Code(),
		},
	}
}
