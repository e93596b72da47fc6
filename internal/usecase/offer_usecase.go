package usecase

import (
	"context"
	"time"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
	"reqmarket/pkg/errors"
)

type OfferUseCase struct {
	lifecycle
	lockWindow time.Duration
}

func NewOfferUseCase(ledger repository.Ledger, clock service.Clock, notifier service.Notifier, lockWindow time.Duration) *OfferUseCase {
	return &OfferUseCase{
		lifecycle:  newLifecycle(ledger, clock, notifier),
		lockWindow: lockWindow,
	}
}

type OfferInput struct {
	Price     int64
	Images    []string
	StoreName string
}

// CreateOffer attaches a seller's offer to a request. Offers keep arriving
// after the buyer accepts one, until the lock window runs out.
func (uc *OfferUseCase) CreateOffer(ctx context.Context, identity string, requestID int64, input OfferInput) (*entity.Offer, error) {
	var offer *entity.Offer
	err := uc.execute(ctx, "create_offer", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		user, err := resolveCaller(tx, identity)
		if err != nil {
			return err
		}
		if err := requireRole(user, entity.RoleSeller); err != nil {
			return err
		}
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Locked(now, uc.lockWindow) {
			return errors.ErrRequestLocked
		}

		storeName := input.StoreName
		if storeName == "" {
			stores, err := tx.ListStoresByOwner(identity)
			if err != nil {
				return err
			}
			storeName = entity.DefaultStoreName
			if len(stores) > 0 {
				storeName = stores[0].Name
			}
		}

		id, err := tx.NextID(entity.SequenceOffer)
		if err != nil {
			return err
		}

		offer = &entity.Offer{
			ID:        id,
			Price:     input.Price,
			Images:    append([]string{}, input.Images...),
			RequestID: request.ID,
			SellerID:  user.ID,
			StoreName: storeName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.PutOffer(offer); err != nil {
			return err
		}

		from := request.Lifecycle
		request.Bids = append(request.Bids, entity.Bid{SellerID: user.ID, OfferID: offer.ID})
		if request.Lifecycle == entity.LifecyclePending {
			request.Lifecycle = entity.LifecycleAcceptedBySeller
		}
		// Every offer re-anchors the lock window.
		request.UpdatedAt = now
		if err := tx.PutRequest(request); err != nil {
			return err
		}

		out.add(&entity.Event{
			Type:      entity.EventOfferCreated,
			RequestID: request.ID,
			OfferID:   offer.ID,
			Data: entity.OfferCreatedData{
				Offer:     offer.Clone(),
				SellerIDs: request.SellerIDs(),
			},
		})
		if from != request.Lifecycle {
			out.add(lifecycleChanged(request, from))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// AcceptOffer locks in an offer on the request it was made against.
func (uc *OfferUseCase) AcceptOffer(ctx context.Context, identity string, offerID int64) (*entity.Request, error) {
	return uc.accept(ctx, identity, 0, offerID)
}

// AcceptOfferForRequest is AcceptOffer with the request named by the caller;
// an offer made against another request fails with InvalidRequestOfferCombination.
func (uc *OfferUseCase) AcceptOfferForRequest(ctx context.Context, identity string, requestID, offerID int64) (*entity.Request, error) {
	return uc.accept(ctx, identity, requestID, offerID)
}

func (uc *OfferUseCase) accept(ctx context.Context, identity string, requestID, offerID int64) (*entity.Request, error) {
	var request *entity.Request
	err := uc.execute(ctx, "accept_offer", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		var (
			offer *entity.Offer
			err   error
		)
		if requestID != 0 {
			if request, err = loadRequest(tx, requestID); err != nil {
				return err
			}
			if offer, err = loadOffer(tx, offerID); err != nil {
				return err
			}
			if offer.RequestID != request.ID {
				return errors.ErrInvalidRequestOfferCombination
			}
		} else {
			if offer, err = loadOffer(tx, offerID); err != nil {
				return err
			}
			if request, err = loadRequest(tx, offer.RequestID); err != nil {
				return err
			}
		}
		if !request.HasOffer(offer.ID) {
			return errors.ErrInvalidRequestOfferCombination
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
		if offer.IsAccepted {
			return errors.ErrOfferAlreadyAccepted
		}
		if request.Locked(now, uc.lockWindow) {
			return errors.ErrRequestLocked
		}

		// Collect every other accepted offer before the first write.
		var previous []*entity.Offer
		for _, id := range request.OfferIDs() {
			if id == offer.ID {
				continue
			}
			sibling, err := tx.GetOffer(id)
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return err
			}
			if sibling.IsAccepted {
				previous = append(previous, sibling)
			}
		}

		for _, sibling := range previous {
			sibling.IsAccepted = false
			sibling.UpdatedAt = now
			if err := tx.PutOffer(sibling); err != nil {
				return err
			}
			out.add(&entity.Event{
				Type:      entity.EventOfferAccepted,
				RequestID: request.ID,
				OfferID:   sibling.ID,
				Data:      entity.OfferAcceptedData{IsAccepted: false},
			})
		}

		offer.IsAccepted = true
		offer.UpdatedAt = now
		if err := tx.PutOffer(offer); err != nil {
			return err
		}
		out.add(&entity.Event{
			Type:      entity.EventOfferAccepted,
			RequestID: request.ID,
			OfferID:   offer.ID,
			Data:      entity.OfferAcceptedData{IsAccepted: true},
		})

		from := request.Lifecycle
		request.LockedSellerID = offer.SellerID
		request.SellersPriceQuote = offer.Price
		request.Lifecycle = entity.LifecycleAcceptedByBuyer
		request.UpdatedAt = now
		if err := tx.PutRequest(request); err != nil {
			return err
		}

		out.add(&entity.Event{
			Type:      entity.EventRequestAccepted,
			RequestID: request.ID,
			OfferID:   offer.ID,
			Data: entity.RequestAcceptedData{
				SellerID:          offer.SellerID,
				SellersPriceQuote: offer.Price,
				UpdatedAt:         now,
			},
		})
		if from != request.Lifecycle {
			out.add(lifecycleChanged(request, from))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (uc *OfferUseCase) GetOffer(ctx context.Context, offerID int64) (*entity.Offer, error) {
	return uc.ledger.GetOffer(ctx, offerID)
}

// GetOffersByRequest returns the request's offers in arrival order, read from
// one consistent snapshot.
func (uc *OfferUseCase) GetOffersByRequest(ctx context.Context, requestID int64) ([]*entity.Offer, error) {
	var offers []*entity.Offer
	err := uc.ledger.RunTransaction(ctx, func(ctx context.Context, tx repository.LedgerTx) error {
		request, err := tx.GetRequest(requestID)
		if err != nil {
			return err
		}

		offers = make([]*entity.Offer, 0, len(request.Bids))
		for _, id := range request.OfferIDs() {
			offer, err := tx.GetOffer(id)
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return err
			}
			offers = append(offers, offer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// GetSellerOffers lists every offer submitted by the seller behind identity.
func (uc *OfferUseCase) GetSellerOffers(ctx context.Context, identity string) ([]*entity.Offer, error) {
	user, err := uc.ledger.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return uc.ledger.ListOffersBySeller(ctx, user.ID)
}
