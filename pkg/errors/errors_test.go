package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(InvalidConfig, "population size too small")
	require.Error(t, err)
	assert.Equal(t, "population size too small", err.Error())

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, InvalidConfig, e.Code())
}

func TestWrap(t *testing.T) {
	t.Run("wraps original error", func(t *testing.T) {
		original := fmt.Errorf("underlying failure")
		err := Wrap(original, EvaluationFailed, "scoring failed")

		assert.Equal(t, "scoring failed: underlying failure", err.Error())
		assert.Equal(t, original, stderrors.Unwrap(err))
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, EvaluationFailed, "scoring failed"))
	})
}

func TestWithFields(t *testing.T) {
	t.Run("adds fields to coded error", func(t *testing.T) {
		err := WithFields(New(InvalidMode, "unrecognized mode"), Fields{"mode": "lamarck"})
		assert.Contains(t, err.Error(), "unrecognized mode")
		assert.Contains(t, err.Error(), "mode=lamarck")

		var e *Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, InvalidMode, e.Code())
		assert.Equal(t, "lamarck", e.Fields()["mode"])
	})

	t.Run("merges with existing fields", func(t *testing.T) {
		err := WithFields(New(PopulationMismatch, "score misalignment"), Fields{"population": 5})
		err = WithFields(err, Fields{"scores": 3})

		var e *Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, 5, e.Fields()["population"])
		assert.Equal(t, 3, e.Fields()["scores"])
	})

	t.Run("deterministic field ordering", func(t *testing.T) {
		err := WithFields(New(Unknown, "msg"), Fields{"b": 2, "a": 1})
		assert.Equal(t, "msg [a=1 b=2]", err.Error())
	})

	t.Run("fields render without padding", func(t *testing.T) {
		err := WithFields(Wrap(fmt.Errorf("root"), InvalidInput, "outer"), Fields{"k": "v"})
		assert.Equal(t, "outer: root [k=v]", err.Error())

		single := WithFields(New(Unknown, "msg"), Fields{"only": 1})
		assert.Equal(t, "msg [only=1]", single.Error())
	})

	t.Run("wraps foreign errors as unknown", func(t *testing.T) {
		err := WithFields(fmt.Errorf("plain"), Fields{"k": "v"})
		var e *Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, Unknown, e.Code())
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, WithFields(nil, Fields{"k": "v"}))
	})
}

func TestIs(t *testing.T) {
	err := New(InvalidConfig, "bad config")
	assert.True(t, stderrors.Is(err, New(InvalidConfig, "other message")))
	assert.False(t, stderrors.Is(err, New(InvalidMode, "bad config")))
	assert.False(t, stderrors.Is(err, fmt.Errorf("bad config")))
}

func TestCheckContext(t *testing.T) {
	t.Run("live context passes", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "evolve"))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "evolve")
		require.Error(t, err)
		assert.Equal(t, Canceled, CodeOf(err))
		assert.Contains(t, err.Error(), "evolve interrupted")
	})

	t.Run("expired deadline", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		err := CheckContext(ctx, "score")
		require.Error(t, err)
		assert.Equal(t, Timeout, CodeOf(err))
	})
}
