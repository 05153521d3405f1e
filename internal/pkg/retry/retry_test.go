package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastConfig(attempts uint) RetryConfig {
	return RetryConfig{
		Attempts: attempts,
		Delay:    time.Millisecond,
		MaxDelay: 2 * time.Millisecond,
		Timeout:  time.Second,
	}
}

func TestDo(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), fastConfig(3), nil, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops after configured attempts", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), fastConfig(3), nil, func(ctx context.Context) error {
			calls++
			return errTransient
		})
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry rejected errors", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		err := Do(context.Background(), fastConfig(5), func(err error) bool {
			return errors.Is(err, errTransient)
		}, func(ctx context.Context) error {
			calls++
			return permanent
		})
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still calls once", func(t *testing.T) {
		calls := 0
		_ = Do(context.Background(), fastConfig(0), nil, func(ctx context.Context) error {
			calls++
			return errTransient
		})
		assert.Equal(t, 1, calls)
	})
}

