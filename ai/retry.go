// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// CallPolicy bounds a model call: each attempt runs under Timeout, and at
// most MaxAttempts attempts are made.
type CallPolicy struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultCallPolicy returns the policy of DefaultConfig.
func DefaultCallPolicy() CallPolicy {
	return DefaultConfig().CallPolicy()
}

// Do runs op under the policy. The context passed to op carries the
// per-attempt deadline. Malformed or empty responses are returned at once.
func (p CallPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return RetryWithBackoff(ctx, func() error {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		return op(attemptCtx)
	}, p.MaxAttempts, p.RetryDelay)
}

// IsPermanent reports whether err should stop retries.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, context.Canceled)
}

// RetryWithBackoff retries an operation with exponential backoff.
// maxAttempts: maximum number of attempts (must be > 0)
// baseDelay: base delay between retries (doubles on each retry)
// Returns the error from the last attempt if all attempts fail, or the first
// permanent error.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
