package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return expectedErr
	}, 3, time.Millisecond)

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_PermanentErrorsStop(t *testing.T) {
	for _, permanent := range []error{ErrMalformedResponse, ErrEmptyResponse} {
		t.Run(permanent.Error(), func(t *testing.T) {
			attempts := 0
			err := RetryWithBackoff(context.Background(), func() error {
				attempts++
				return fmt.Errorf("%w: bad json", permanent)
			}, 3, time.Millisecond)

			assert.ErrorIs(t, err, permanent)
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		cancel()
		return errors.New("transport error")
	}, 5, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestCallPolicy_Do(t *testing.T) {
	t.Run("single retry on transport error", func(t *testing.T) {
		policy := CallPolicy{Timeout: time.Second, MaxAttempts: 2, RetryDelay: time.Millisecond}
		attempts := 0
		err := policy.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errors.New("connection refused")
		})

		require.Error(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("attempt carries deadline", func(t *testing.T) {
		policy := CallPolicy{Timeout: 20 * time.Millisecond, MaxAttempts: 2, RetryDelay: time.Millisecond}
		attempts := 0
		err := policy.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			<-ctx.Done()
			return ctx.Err()
		})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 2, attempts)
	})

	t.Run("malformed output is not retried", func(t *testing.T) {
		attempts := 0
		err := DefaultCallPolicy().Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return ErrMalformedResponse
		})

		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, 1, attempts)
	})
}
