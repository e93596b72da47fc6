package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("loading offer: %w", NotFound("Offer", nil))

	assert.True(t, IsNotFound(err))
	assert.False(t, Is(err, "BAD_REQUEST"))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestMarketplaceSentinels(t *testing.T) {
	err := fmt.Errorf("accept: %w", ErrRequestLocked)

	assert.ErrorIs(t, err, ErrRequestLocked)
	assert.NotErrorIs(t, err, ErrRequestNotLocked)
	assert.True(t, Is(err, "REQUEST_LOCKED"))
	assert.Equal(t, http.StatusConflict, ErrRequestLocked.Status)
}

func TestConstructorsCarryStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no token", nil).Status)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("slow down").Status)
	assert.Equal(t, "Offer not found", NotFound("Offer", nil).Message)

	assert.True(t, IsClientError(BadRequest("bad", nil)))
	assert.True(t, IsClientError(ErrOnlyBuyersAllowed))
	assert.False(t, IsClientError(Internal("boom", nil)))
	assert.False(t, IsClientError(stderrors.New("plain")))
}
