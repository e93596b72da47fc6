package repository

import (
	"context"
	"math"
	"sort"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/pkg/errors"
)

const (
	usersCollection    = "users"
	storesCollection   = "stores"
	requestsCollection = "requests"
	offersCollection   = "offers"
	countersCollection = "counters"
)

type firestoreLedger struct {
	client *firestore.Client
}

// NewFirestoreLedger stores users under their identity and every other record
// under its numeric id. Sequences live in the counters collection.
func NewFirestoreLedger(client *firestore.Client) repository.Ledger {
	return &firestoreLedger{
		client: client,
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (r *firestoreLedger) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.LedgerTx) error) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: r.client, tx: tx})
	})
}

func (r *firestoreLedger) GetUser(ctx context.Context, identity string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(identity).Get(ctx)
	return decodeUser(doc, err)
}

func (r *firestoreLedger) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where("id", "==", id).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	return decodeUser(doc, err)
}

func (r *firestoreLedger) GetRequest(ctx context.Context, id int64) (*entity.Request, error) {
	doc, err := r.client.Collection(requestsCollection).Doc(docID(id)).Get(ctx)
	return decodeRequest(doc, err)
}

func (r *firestoreLedger) GetOffer(ctx context.Context, id int64) (*entity.Offer, error) {
	doc, err := r.client.Collection(offersCollection).Doc(docID(id)).Get(ctx)
	return decodeOffer(doc, err)
}

func (r *firestoreLedger) ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, int64, error) {
	query := r.client.Collection(requestsCollection).OrderBy("id", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count requests", err)
	}
	total := int64(len(allDocs))
	if offset < 0 || offset >= len(allDocs) {
		return []*entity.Request{}, total, nil
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list requests", err)
	}

	requests := make([]*entity.Request, 0, len(docs))
	for _, doc := range docs {
		request, err := decodeRequest(doc, nil)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	return requests, total, nil
}

func (r *firestoreLedger) ListRequestsByBuyer(ctx context.Context, buyerID int64) ([]*entity.Request, error) {
	docs, err := r.client.Collection(requestsCollection).Where("buyerId", "==", buyerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list buyer requests", err)
	}

	requests := make([]*entity.Request, 0, len(docs))
	for _, doc := range docs {
		request, err := decodeRequest(doc, nil)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

func (r *firestoreLedger) ListOffersBySeller(ctx context.Context, sellerID int64) ([]*entity.Offer, error) {
	docs, err := r.client.Collection(offersCollection).Where("sellerId", "==", sellerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list seller offers", err)
	}

	offers := make([]*entity.Offer, 0, len(docs))
	for _, doc := range docs {
		offer, err := decodeOffer(doc, nil)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

func (r *firestoreLedger) ListStoresByOwner(ctx context.Context, identity string) ([]*entity.Store, error) {
	docs, err := r.client.Collection(storesCollection).Where("owner", "==", identity).Documents(ctx).GetAll()
	return decodeStores(docs, err)
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) GetUser(identity string) (*entity.User, error) {
	doc, err := t.tx.Get(t.client.Collection(usersCollection).Doc(identity))
	return decodeUser(doc, err)
}

func (t *firestoreTx) PutUser(user *entity.User) error {
	return t.tx.Set(t.client.Collection(usersCollection).Doc(user.Identity), user)
}

func (t *firestoreTx) GetRequest(id int64) (*entity.Request, error) {
	doc, err := t.tx.Get(t.client.Collection(requestsCollection).Doc(docID(id)))
	return decodeRequest(doc, err)
}

func (t *firestoreTx) PutRequest(request *entity.Request) error {
	return t.tx.Set(t.client.Collection(requestsCollection).Doc(docID(request.ID)), request)
}

func (t *firestoreTx) DeleteRequest(id int64) error {
	return t.tx.Delete(t.client.Collection(requestsCollection).Doc(docID(id)))
}

func (t *firestoreTx) GetOffer(id int64) (*entity.Offer, error) {
	doc, err := t.tx.Get(t.client.Collection(offersCollection).Doc(docID(id)))
	return decodeOffer(doc, err)
}

func (t *firestoreTx) PutOffer(offer *entity.Offer) error {
	return t.tx.Set(t.client.Collection(offersCollection).Doc(docID(offer.ID)), offer)
}

func (t *firestoreTx) ListStoresByOwner(identity string) ([]*entity.Store, error) {
	query := t.client.Collection(storesCollection).Where("owner", "==", identity)
	docs, err := t.tx.Documents(query).GetAll()
	return decodeStores(docs, err)
}

func (t *firestoreTx) PutStore(store *entity.Store) error {
	return t.tx.Set(t.client.Collection(storesCollection).Doc(docID(store.ID)), store)
}

func (t *firestoreTx) NextID(seq entity.Sequence) (int64, error) {
	ref := t.client.Collection(countersCollection).Doc(string(seq))

	var current int64
	doc, err := t.tx.Get(ref)
	switch {
	case status.Code(err) == codes.NotFound:
	case err != nil:
		return 0, errors.Internal("Failed to read sequence", err)
	default:
		value, err := doc.DataAt("value")
		if err != nil {
			return 0, errors.Internal("Failed to parse sequence", err)
		}
		current, _ = value.(int64)
	}

	if current == math.MaxInt64 {
		panic("ledger: " + string(seq) + " counter overflow")
	}
	next := current + 1
	if err := t.tx.Set(ref, map[string]interface{}{"value": next}); err != nil {
		return 0, errors.Internal("Failed to advance sequence", err)
	}
	return next, nil
}

func decodeUser(doc *firestore.DocumentSnapshot, err error) (*entity.User, error) {
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func decodeRequest(doc *firestore.DocumentSnapshot, err error) (*entity.Request, error) {
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Request", err)
		}
		return nil, errors.Internal("Failed to get request", err)
	}

	var request entity.Request
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse request data", err)
	}
	return &request, nil
}

func decodeOffer(doc *firestore.DocumentSnapshot, err error) (*entity.Offer, error) {
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.Offer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}
	return &offer, nil
}

func decodeStores(docs []*firestore.DocumentSnapshot, err error) ([]*entity.Store, error) {
	if err != nil {
		return nil, errors.Internal("Failed to list stores", err)
	}

	stores := make([]*entity.Store, 0, len(docs))
	for _, doc := range docs {
		var store entity.Store
		if err := doc.DataTo(&store); err != nil {
			return nil, errors.Internal("Failed to parse store data", err)
		}
		stores = append(stores, &store)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return stores, nil
}
