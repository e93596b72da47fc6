package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"reqmarket/pkg/errors"
)

// FirebaseAuthClient resolves bearer tokens to Firebase user ids, which act
// as marketplace identities.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	return result.UID, nil
}
