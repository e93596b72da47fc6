package service

import (
	"context"

	"reqmarket/internal/domain/entity"
)

// Notifier receives state-change events after a successful commit.
// Delivery is best effort; implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, event *entity.Event)
}

type NotifierFunc func(ctx context.Context, event *entity.Event)

func (f NotifierFunc) Notify(ctx context.Context, event *entity.Event) {
	f(ctx, event)
}

// MultiNotifier fans an event out to every sink in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event *entity.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, *entity.Event) {}
