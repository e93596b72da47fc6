package repository

import (
	"context"

	"reqmarket/internal/domain/entity"
)

// Ledger holds users, stores, requests and offers. Every mutation goes through
// RunTransaction, which applies all of fn's writes or none of them. fn may be
// invoked more than once when the backend retries on contention.
type Ledger interface {
	LedgerReader
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerReader serves the read-only queries. Missing records yield errors.NotFound.
type LedgerReader interface {
	GetUser(ctx context.Context, identity string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetRequest(ctx context.Context, id int64) (*entity.Request, error)
	GetOffer(ctx context.Context, id int64) (*entity.Offer, error)
	ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, int64, error)
	ListRequestsByBuyer(ctx context.Context, buyerID int64) ([]*entity.Request, error)
	ListOffersBySeller(ctx context.Context, sellerID int64) ([]*entity.Offer, error)
	ListStoresByOwner(ctx context.Context, identity string) ([]*entity.Store, error)
}

// LedgerTx is the view handed to a transaction. All reads must be issued
// before the first write; NextID counts as a read followed by a write.
type LedgerTx interface {
	GetUser(identity string) (*entity.User, error)
	PutUser(user *entity.User) error

	GetRequest(id int64) (*entity.Request, error)
	PutRequest(request *entity.Request) error
	DeleteRequest(id int64) error

	GetOffer(id int64) (*entity.Offer, error)
	PutOffer(offer *entity.Offer) error

	ListStoresByOwner(identity string) ([]*entity.Store, error)
	PutStore(store *entity.Store) error

	// NextID advances the sequence and returns its new value. Overflow panics.
	NextID(seq entity.Sequence) (int64, error)
}
