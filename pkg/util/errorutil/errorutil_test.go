package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OTP expired", UserMessage(NewUpstreamError(http.StatusBadRequest, "OTP expired"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(NewUpstreamError(http.StatusBadRequest, "  "), "fallback"))
	assert.Equal(t, "fallback", UserMessage(NewTransportError(errors.New("dial tcp")), "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("boom"), "fallback"))
	assert.Equal(t, "wrapped", UserMessage(fmt.Errorf("call: %w", NewUpstreamError(http.StatusConflict, "wrapped")), "fallback"))
}

func TestToDomainError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(context.DeadlineExceeded)
	assert.Equal(t, CodeTransport, de.Code)
	assert.Equal(t, http.StatusBadGateway, de.HTTPStatus)

	de = ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	de = ToDomainError(NewNotFound("customer", nil))
	assert.Equal(t, "customer not found", de.Message)
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("list: %w", NewTransportError(errors.New("reset")))
	assert.True(t, IsTransport(err))
	assert.True(t, HasCode(err, CodeTransport))
	assert.False(t, HasCode(err, CodeUpstreamRejected))
	assert.False(t, IsTransport(errors.New("plain")))
	assert.ErrorContains(t, err, "reset")
}
