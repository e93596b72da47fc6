package usecase

import (
	"context"
	"time"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
	"reqmarket/pkg/errors"
)

type UserUseCase struct {
	lifecycle
}

func NewUserUseCase(ledger repository.Ledger, clock service.Clock, notifier service.Notifier) *UserUseCase {
	return &UserUseCase{
		lifecycle: newLifecycle(ledger, clock, notifier),
	}
}

type UserInput struct {
	Username string
	Phone    string
	Location entity.Location
	Role     entity.Role
}

func userEvent(eventType entity.EventType, user *entity.User) *entity.Event {
	return &entity.Event{
		Type: eventType,
		Data: entity.UserEventData{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			RoleCode: user.Role.Code(),
		},
	}
}

// CreateUser registers the caller. Each identity owns at most one user.
func (uc *UserUseCase) CreateUser(ctx context.Context, identity string, input UserInput) (*entity.User, error) {
	if !input.Role.Valid() {
		return nil, errors.BadRequest("Invalid role", nil)
	}

	var user *entity.User
	err := uc.execute(ctx, "create_user", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		if identity == "" {
			return errors.ErrInvalidUser
		}
		_, err := tx.GetUser(identity)
		if err == nil {
			return errors.ErrUserAlreadyExists
		}
		if !errors.IsNotFound(err) {
			return err
		}

		id, err := tx.NextID(entity.SequenceUser)
		if err != nil {
			return err
		}

		user = &entity.User{
			ID:        id,
			Identity:  identity,
			Username:  input.Username,
			Phone:     input.Phone,
			Location:  input.Location,
			Role:      input.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.PutUser(user); err != nil {
			return err
		}

		out.add(userEvent(entity.EventUserCreated, user))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites every mutable field, role included. The id and
// creation time are kept.
func (uc *UserUseCase) UpdateUser(ctx context.Context, identity string, input UserInput) (*entity.User, error) {
	if !input.Role.Valid() {
		return nil, errors.BadRequest("Invalid role", nil)
	}

	var user *entity.User
	err := uc.execute(ctx, "update_user", identity, func(tx repository.LedgerTx, now time.Time, out *outbox) error {
		var err error
		user, err = resolveCaller(tx, identity)
		if err != nil {
			return err
		}

		user.Username = input.Username
		user.Phone = input.Phone
		user.Location = input.Location
		user.Role = input.Role
		user.UpdatedAt = now

		if err := tx.PutUser(user); err != nil {
			return err
		}

		out.add(userEvent(entity.EventUserUpdated, user))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, identity string) (*entity.User, error) {
	return uc.ledger.GetUser(ctx, identity)
}

func (uc *UserUseCase) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return uc.ledger.GetUserByID(ctx, id)
}
