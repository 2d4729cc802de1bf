package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesChain(t *testing.T) {
	err := Wrap(ErrTransient, "request failed")
	assert.True(t, IsTransient(err))
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "request failed: transient network error", err.Error())

	// A second layer of wrapping still resolves the sentinel.
	outer := fmt.Errorf("fetching profile: %w", err)
	assert.True(t, IsTransient(outer))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, WrapWithCode(nil, "CODE", "nothing"))
}

func TestOnlyTransientIsRetryable(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrBlocked, ErrMalformed, ErrPersistence} {
		assert.False(t, IsRetryable(Wrap(sentinel, "x")), "%v must not be retryable", sentinel)
	}
	assert.True(t, IsRetryable(Wrap(ErrTransient, "x")))
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{0, ErrTransient},
		{404, ErrNotFound},
		{401, ErrBlocked},
		{403, ErrBlocked},
		{429, ErrBlocked},
		{500, ErrTransient},
		{503, ErrTransient},
		{400, ErrMalformed},
		{301, ErrMalformed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromStatusCode(tt.status), "status %d", tt.status)
	}
}
