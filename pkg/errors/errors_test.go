package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.True(t, Is(Unauthenticated("log in"), CodeUnauthenticated))
	assert.True(t, Is(ServerRejected("nope", 400), CodeServerRejected))
	assert.True(t, Is(Transport("dial failed", nil), CodeTransport))
	assert.True(t, Is(InvalidResponse("bad envelope", nil), CodeInvalidResponse))
	assert.False(t, Is(fmt.Errorf("plain"), CodeTransport))
}

func TestServerRejectedDefaultMessage(t *testing.T) {
	err := ServerRejected("", 500)
	assert.Equal(t, "Request failed", err.Message)
	assert.Equal(t, 500, err.Status)
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Offer expired", MessageOf(ServerRejected("Offer expired", 400)))
	assert.Equal(t, "plain", MessageOf(fmt.Errorf("plain")))
	assert.Equal(t, "", MessageOf(nil))
}

func TestWrappedErrorKeepsCode(t *testing.T) {
	inner := Transport("dial failed", fmt.Errorf("connection refused"))
	wrapped := fmt.Errorf("send message: %w", inner)
	assert.True(t, Is(wrapped, CodeTransport))
}
