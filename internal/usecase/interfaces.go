package usecase

import "context"

// TokenVerifier turns a bearer token into the caller identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// TokenIssuer mints tokens for an identity; only used by development tooling.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, identity string) (string, error)
}
