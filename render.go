package inkwell

import (
	"context"
	"sync/atomic"
)

// RenderLoop coalesces invalidations into frames. Any number of Invalidate
// calls between two frames produce a single redraw.
type RenderLoop struct {
	pending       atomic.Bool
	notify        chan struct{}
	invalidations atomic.Uint64
	frames        atomic.Uint64
	draw          func(ctx context.Context, s Surface) error
}

func newRenderLoop(draw func(ctx context.Context, s Surface) error) *RenderLoop {
	r := &RenderLoop{
		notify: make(chan struct{}, 1),
		draw:   draw,
	}
	// The first frame always draws.
	r.pending.Store(true)
	return r
}

// Invalidate marks the view stale and wakes a host waiting on Notify.
func (r *RenderLoop) Invalidate() {
	r.invalidations.Add(1)
	r.pending.Store(true)
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Force marks the view stale without counting an invalidation, for hosts
// whose surface was lost or resized.
func (r *RenderLoop) Force() {
	r.pending.Store(true)
}

// Notify returns a channel that receives a value after Invalidate. Several
// invalidations before a receive collapse into one value.
func (r *RenderLoop) Notify() <-chan struct{} {
	return r.notify
}

// Pending reports whether the next Frame will draw.
func (r *RenderLoop) Pending() bool {
	return r.pending.Load()
}

// Frame draws into s if the view is stale and reports whether it drew. On
// error the view stays stale so the next frame retries.
func (r *RenderLoop) Frame(ctx context.Context, s Surface) (bool, error) {
	if !r.pending.Swap(false) {
		return false, nil
	}
	if err := r.draw(ctx, s); err != nil {
		r.pending.Store(true)
		return false, err
	}
	r.frames.Add(1)
	return true, nil
}

// Frames returns the number of frames drawn.
func (r *RenderLoop) Frames() uint64 { return r.frames.Load() }

// Invalidations returns the number of Invalidate calls.
func (r *RenderLoop) Invalidations() uint64 { return r.invalidations.Load() }
