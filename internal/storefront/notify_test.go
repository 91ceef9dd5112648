package storefront

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeBuffer(t *testing.T) {
	next := &recorder{}
	b := NewNoticeBuffer(2, next)
	ctx := context.Background()

	b.Notify(ctx, Notice{Message: "one"})
	b.Notify(ctx, Notice{Message: "two"})
	b.Notify(ctx, Notice{Message: "three"})

	got := b.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, "three", got[1].Message)
	assert.False(t, got[0].At.IsZero())
	assert.Equal(t, 3, next.count())
	assert.Empty(t, b.Drain())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	notifyFailure(context.Background(), n, "could not load payments", errors.New("dial tcp: refused"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "could not load payments")
	assert.Contains(t, out, "dial tcp: refused")
}

func TestNotifyFailureWithoutNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		notifyFailure(context.Background(), nil, "ignored", errors.New("x"))
	})
}

func TestMutationStateString(t *testing.T) {
	assert.Equal(t, "pending", MutationPending.String())
	assert.Equal(t, "settled", MutationSettled.String())
	assert.Equal(t, "failed", MutationFailed.String())
}
