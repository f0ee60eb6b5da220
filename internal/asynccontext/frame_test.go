package asynccontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunInNewFrame_IsolatesFromParentContext(t *testing.T) {
	base := context.Background()

	_, ok := GetRequest(base)
	assert.False(t, ok)

	RunInNewFrame(base, func(ctx context.Context) {
		SetRequest(ctx, "req-1")
		v, ok := GetRequest(ctx)
		assert.True(t, ok)
		assert.Equal(t, "req-1", v)
	})

	// The parent context never saw a frame at all, so it still reports absent.
	_, ok = GetRequest(base)
	assert.False(t, ok)
}

func TestSetSpan_InnermostOpenSpanAndRestore(t *testing.T) {
	RunInNewFrame(context.Background(), func(ctx context.Context) {
		SetSpan(ctx, "span-parent")
		SetSpan(ctx, "span-child")

		v, ok := GetSpan(ctx)
		assert.True(t, ok)
		assert.Equal(t, "span-child", v)

		// Closing the child restores the parent.
		SetSpan(ctx, "span-parent")
		v, ok = GetSpan(ctx)
		assert.True(t, ok)
		assert.Equal(t, "span-parent", v)

		// Closing the last span clears the slot.
		SetSpan(ctx, nil)
		_, ok = GetSpan(ctx)
		assert.False(t, ok)
	})
}

func TestBind_ReinjectsCapturedFrameIntoLaterContext(t *testing.T) {
	var bound func(context.Context)

	RunInNewFrame(context.Background(), func(ctx context.Context) {
		SetRequest(ctx, "req-bound")
		bound = Bind(ctx, func(innerCtx context.Context) {
			v, ok := GetRequest(innerCtx)
			assert.True(t, ok)
			assert.Equal(t, "req-bound", v)
		})
	})

	// Invoked later, with a completely unrelated context, bound still
	// observes the frame captured at Bind time.
	unrelated := context.Background()
	_, ok := GetRequest(unrelated)
	assert.False(t, ok)
	bound(unrelated)
}

func TestGetRequest_AbsentWithoutFrame(t *testing.T) {
	_, ok := GetRequest(context.Background())
	assert.False(t, ok)
}
