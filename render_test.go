package inkwell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLoopFirstFrameDraws(t *testing.T) {
	draws := 0
	r := newRenderLoop(func(context.Context, Surface) error { draws++; return nil })

	assert.True(t, r.Pending())
	drew, err := r.Frame(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, drew)

	drew, _ = r.Frame(context.Background(), nil)
	assert.False(t, drew, "nothing invalidated since")
	assert.Equal(t, 1, draws)
}

func TestRenderLoopCoalescesInvalidations(t *testing.T) {
	draws := 0
	r := newRenderLoop(func(context.Context, Surface) error { draws++; return nil })
	r.Frame(context.Background(), nil)

	for range 5 {
		r.Invalidate()
	}
	r.Frame(context.Background(), nil)
	r.Frame(context.Background(), nil)

	assert.Equal(t, 2, draws)
	assert.Equal(t, uint64(5), r.Invalidations())
	assert.Equal(t, uint64(2), r.Frames())

	select {
	case <-r.Notify():
	default:
		t.Fatal("expected a notification")
	}
	select {
	case <-r.Notify():
		t.Fatal("notifications must collapse")
	default:
	}
}

func TestRenderLoopRetriesAfterError(t *testing.T) {
	fail := true
	r := newRenderLoop(func(context.Context, Surface) error {
		if fail {
			return errors.New("device lost")
		}
		return nil
	})

	drew, err := r.Frame(context.Background(), nil)
	assert.False(t, drew)
	assert.EqualError(t, err, "device lost")
	assert.True(t, r.Pending())
	assert.Equal(t, uint64(0), r.Frames())

	fail = false
	drew, err = r.Frame(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, drew)
}

func TestRenderLoopForceDoesNotCount(t *testing.T) {
	r := newRenderLoop(func(context.Context, Surface) error { return nil })
	r.Frame(context.Background(), nil)

	r.Force()
	assert.True(t, r.Pending())
	assert.Equal(t, uint64(0), r.Invalidations())
}
