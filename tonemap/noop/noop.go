// Package noop is a tonemap backend that performs no pixel work. Blits complete as soon as their wait
// fence signals, which makes it suitable for headless pipelines and for exercising the session pool.
package noop

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/tonemap"
)

// Options contains optional settings for a Factory
type Options struct {
	// Timeline, if provided, is used to wait on blit input fences and to issue a completion fence
	// for each blit. Without a timeline, blits return no fence.
	Timeline *soft.Timeline
	// RefuseSecure makes the factory decline secure configurations, the way backends without a
	// protected context do
	RefuseSecure bool
}

// Factory produces Tonemappers and counts how they are used
type Factory struct {
	options Options

	created   atomic.Int64
	destroyed atomic.Int64
	blits     atomic.Int64
}

var _ tonemap.Factory = &Factory{}

func New(options Options) *Factory {
	return &Factory{options: options}
}

func (f *Factory) NewTonemapper(direction tonemap.Direction, lut []tonemap.Color10Bit, lutDim int, gridEntries []tonemap.Color10Bit, gridSize int, secure bool) tonemap.Tonemapper {
	if len(lut) == 0 || lutDim == 0 {
		return nil
	}
	if secure && f.options.RefuseSecure {
		return nil
	}

	f.created.Add(1)
	return &Tonemapper{
		factory:   f,
		direction: direction,
		secure:    secure,
	}
}

// Live is the number of tonemappers created and not yet destroyed
func (f *Factory) Live() int { return int(f.created.Load() - f.destroyed.Load()) }

// Created is the number of tonemappers ever created
func (f *Factory) Created() int { return int(f.created.Load()) }

// Blits is the number of blits performed by all tonemappers
func (f *Factory) Blits() int { return int(f.blits.Load()) }

// Tonemapper is a compute context that does nothing
type Tonemapper struct {
	factory   *Factory
	direction tonemap.Direction
	secure    bool

	destroyOnce sync.Once
	destroyed   atomic.Bool
}

func (t *Tonemapper) Direction() tonemap.Direction { return t.direction }
func (t *Tonemapper) Secure() bool                 { return t.secure }

func (t *Tonemapper) Blit(dst, src gralloc.Handle, wait fence.Fence) (int, error) {
	if t.destroyed.Load() {
		return -1, errors.New("blit on a destroyed tonemapper")
	}
	if dst == 0 || src == 0 {
		return -1, errors.Newf("blit with invalid handles dst=%d src=%d", dst, src)
	}
	t.factory.blits.Add(1)

	timeline := t.factory.options.Timeline
	if timeline == nil {
		return -1, nil
	}

	fd := timeline.NewPoint()
	go func() {
		// A wait that times out still completes the blit; the timeout has already been reported
		_ = timeline.Wait(wait)
		_ = timeline.Signal(fd)
	}()

	return fd, nil
}

func (t *Tonemapper) Destroy() {
	t.destroyOnce.Do(func() {
		t.destroyed.Store(true)
		t.factory.destroyed.Add(1)
	})
}
