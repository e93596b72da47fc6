package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/pkg/errors"
)

type ledgerState struct {
	users          map[string]*entity.User
	userIdentities map[int64]string
	stores         map[int64]*entity.Store
	requests       map[int64]*entity.Request
	offers         map[int64]*entity.Offer
	counters       map[entity.Sequence]int64

	// owner indexes, maintained on write
	storesByOwner   map[string][]int64
	requestsByBuyer map[int64][]int64
	offersBySeller  map[int64][]int64
}

func newLedgerState() ledgerState {
	return ledgerState{
		users:           map[string]*entity.User{},
		userIdentities:  map[int64]string{},
		stores:          map[int64]*entity.Store{},
		requests:        map[int64]*entity.Request{},
		offers:          map[int64]*entity.Offer{},
		counters:        map[entity.Sequence]int64{},
		storesByOwner:   map[string][]int64{},
		requestsByBuyer: map[int64][]int64{},
		offersBySeller:  map[int64][]int64{},
	}
}

type memoryLedger struct {
	mu    sync.RWMutex
	state ledgerState
}

// NewMemoryLedger returns a process-local ledger. Transactions are
// serialized and write in place; each write logs how to revert itself, and
// the log is replayed backwards when fn fails or panics.
func NewMemoryLedger() repository.Ledger {
	return &memoryLedger{state: newLedgerState()}
}

func (l *memoryLedger) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &memoryTx{state: &l.state}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (l *memoryLedger) GetUser(ctx context.Context, identity string) (*entity.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.user(identity)
}

func (l *memoryLedger) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	identity, ok := l.state.userIdentities[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return l.state.user(identity)
}

func (l *memoryLedger) GetRequest(ctx context.Context, id int64) (*entity.Request, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.request(id)
}

func (l *memoryLedger) GetOffer(ctx context.Context, id int64) (*entity.Offer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.offer(id)
}

func (l *memoryLedger) ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int64, 0, len(l.state.requests))
	for id := range l.state.requests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset < 0 || offset >= len(ids) {
		return []*entity.Request{}, total, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	requests := make([]*entity.Request, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, l.state.requests[id].Clone())
	}
	return requests, total, nil
}

func (l *memoryLedger) ListRequestsByBuyer(ctx context.Context, buyerID int64) ([]*entity.Request, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.state.requestsByBuyer[buyerID]
	requests := make([]*entity.Request, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, l.state.requests[id].Clone())
	}
	return requests, nil
}

func (l *memoryLedger) ListOffersBySeller(ctx context.Context, sellerID int64) ([]*entity.Offer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.state.offersBySeller[sellerID]
	offers := make([]*entity.Offer, 0, len(ids))
	for _, id := range ids {
		offers = append(offers, l.state.offers[id].Clone())
	}
	return offers, nil
}

func (l *memoryLedger) ListStoresByOwner(ctx context.Context, identity string) ([]*entity.Store, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.storesOf(identity), nil
}

func (s *ledgerState) user(identity string) (*entity.User, error) {
	u, ok := s.users[identity]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return u.Clone(), nil
}

func (s *ledgerState) request(id int64) (*entity.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	return r.Clone(), nil
}

func (s *ledgerState) offer(id int64) (*entity.Offer, error) {
	o, ok := s.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	return o.Clone(), nil
}

func (s *ledgerState) storesOf(identity string) []*entity.Store {
	ids := s.storesByOwner[identity]
	stores := make([]*entity.Store, 0, len(ids))
	for _, id := range ids {
		stores = append(stores, s.stores[id].Clone())
	}
	return stores
}

type memoryTx struct {
	state *ledgerState
	wrote bool
	undo  []func()
}

var errReadAfterWrite = errors.Internal("Transaction read after write", nil)

func (tx *memoryTx) read() error {
	if tx.wrote {
		return errReadAfterWrite
	}
	return nil
}

func (tx *memoryTx) write(undo func()) {
	tx.wrote = true
	tx.undo = append(tx.undo, undo)
}

func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// restore puts back m[k] as it was before a write: prev, or absent.
func restore[K comparable, V any](m map[K]V, k K) func() {
	prev, had := m[k]
	return func() {
		if had {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

// restoreIndex snapshots an owner index entry; the copy survives in-place edits.
func restoreIndex[K comparable](m map[K][]int64, k K) func() {
	prev, had := m[k]
	prev = append([]int64(nil), prev...)
	return func() {
		if had {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

func (tx *memoryTx) GetUser(identity string) (*entity.User, error) {
	if err := tx.read(); err != nil {
		return nil, err
	}
	return tx.state.user(identity)
}

func (tx *memoryTx) PutUser(user *entity.User) error {
	tx.write(restore(tx.state.users, user.Identity))
	tx.write(restore(tx.state.userIdentities, user.ID))
	tx.state.users[user.Identity] = user.Clone()
	tx.state.userIdentities[user.ID] = user.Identity
	return nil
}

func (tx *memoryTx) GetRequest(id int64) (*entity.Request, error) {
	if err := tx.read(); err != nil {
		return nil, err
	}
	return tx.state.request(id)
}

func (tx *memoryTx) PutRequest(request *entity.Request) error {
	if _, exists := tx.state.requests[request.ID]; !exists {
		tx.write(restoreIndex(tx.state.requestsByBuyer, request.BuyerID))
		tx.state.requestsByBuyer[request.BuyerID] = append(tx.state.requestsByBuyer[request.BuyerID], request.ID)
	}
	tx.write(restore(tx.state.requests, request.ID))
	tx.state.requests[request.ID] = request.Clone()
	return nil
}

func (tx *memoryTx) DeleteRequest(id int64) error {
	tx.wrote = true
	r, ok := tx.state.requests[id]
	if !ok {
		return nil
	}
	tx.write(restore(tx.state.requests, id))
	tx.write(restoreIndex(tx.state.requestsByBuyer, r.BuyerID))
	delete(tx.state.requests, id)

	ids := tx.state.requestsByBuyer[r.BuyerID]
	for i, rid := range ids {
		if rid == id {
			tx.state.requestsByBuyer[r.BuyerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (tx *memoryTx) GetOffer(id int64) (*entity.Offer, error) {
	if err := tx.read(); err != nil {
		return nil, err
	}
	return tx.state.offer(id)
}

func (tx *memoryTx) PutOffer(offer *entity.Offer) error {
	if _, exists := tx.state.offers[offer.ID]; !exists {
		tx.write(restoreIndex(tx.state.offersBySeller, offer.SellerID))
		tx.state.offersBySeller[offer.SellerID] = append(tx.state.offersBySeller[offer.SellerID], offer.ID)
	}
	tx.write(restore(tx.state.offers, offer.ID))
	tx.state.offers[offer.ID] = offer.Clone()
	return nil
}

func (tx *memoryTx) ListStoresByOwner(identity string) ([]*entity.Store, error) {
	if err := tx.read(); err != nil {
		return nil, err
	}
	return tx.state.storesOf(identity), nil
}

func (tx *memoryTx) PutStore(store *entity.Store) error {
	if _, exists := tx.state.stores[store.ID]; !exists {
		tx.write(restoreIndex(tx.state.storesByOwner, store.Owner))
		tx.state.storesByOwner[store.Owner] = append(tx.state.storesByOwner[store.Owner], store.ID)
	}
	tx.write(restore(tx.state.stores, store.ID))
	tx.state.stores[store.ID] = store.Clone()
	return nil
}

func (tx *memoryTx) NextID(seq entity.Sequence) (int64, error) {
	if err := tx.read(); err != nil {
		return 0, err
	}
	current := tx.state.counters[seq]
	if current == math.MaxInt64 {
		panic("ledger: " + string(seq) + " counter overflow")
	}
	tx.write(restore(tx.state.counters, seq))
	tx.state.counters[seq] = current + 1
	return current + 1, nil
}
