// Package soft is a software implementation of fence.Primitives. Sync points are created with
// Timeline.NewPoint, which hands out a raw descriptor the way a driver would, and signaled with
// Timeline.Signal. It backs headless runs and tests.
package soft

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/internal/utils"
	"golang.org/x/exp/slog"
)

const (
	defaultWaitTimeout = time.Second
	// file descriptors 0-2 are never handed out
	firstFD = 3
)

// Options contains optional settings for a Timeline
type Options struct {
	// WaitTimeout bounds every Wait call. Zero selects one second.
	WaitTimeout time.Duration
	// SignalOnCreate marks every new point as signaled immediately, useful for backends that
	// complete their work synchronously
	SignalOnCreate bool
}

type point struct {
	fd       int
	done     chan struct{}
	signaled bool
}

// Timeline owns a table of software sync points, addressed by raw descriptor. Only unsignaled points
// are kept in the table: a point is retired as soon as it signals, and fences created before that keep
// their own reference to it.
type Timeline struct {
	logger  *slog.Logger
	options Options

	mutex  sync.Mutex
	nextFD int
	points *swiss.Map[int, *point]
}

var _ fence.Primitives = &Timeline{}

// Fence is a reference to one or more sync points. A merged fence references the points of
// both of its inputs.
type Fence struct {
	fd     int
	name   string
	points []*point
}

func (f *Fence) FD() int      { return f.fd }
func (f *Fence) Name() string { return f.name }

// Signaled reports whether every point referenced by f has signaled
func (f *Fence) Signaled() bool {
	for _, p := range f.points {
		select {
		case <-p.done:
		default:
			return false
		}
	}
	return true
}

func New(logger *slog.Logger, options Options) *Timeline {
	if options.WaitTimeout == 0 {
		options.WaitTimeout = defaultWaitTimeout
	}
	return &Timeline{
		logger:  utils.LoggerOrDiscard(logger),
		options: options,
		nextFD:  firstFD,
		points:  swiss.NewMap[int, *point](16),
	}
}

// NewPoint registers a new unsignaled sync point and returns its raw descriptor
func (t *Timeline) NewPoint() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	fd := t.nextFD
	t.nextFD++

	// Signaled points are never tracked; Create treats their descriptor as already signaled
	if !t.options.SignalOnCreate {
		t.points.Put(fd, &point{fd: fd, done: make(chan struct{})})
	}

	return fd
}

// Signal marks the sync point behind rawFD as signaled and retires it. Signaling a descriptor that has
// already signaled is a no-op.
func (t *Timeline) Signal(rawFD int) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	p, ok := t.points.Get(rawFD)
	if !ok {
		if rawFD >= firstFD && rawFD < t.nextFD {
			return nil
		}
		return errors.Newf("no sync point with descriptor %d", rawFD)
	}

	p.signaled = true
	close(p.done)
	t.points.Delete(rawFD)
	return nil
}

// Pending is the number of registered sync points that have not signaled
func (t *Timeline) Pending() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.points.Count()
}

func (t *Timeline) Dup(f fence.Fence) fence.Fence {
	src := t.unwrap(f)
	if src == nil {
		return nil
	}

	return &Fence{
		fd:     t.allocFD(),
		name:   src.name,
		points: src.points,
	}
}

func (t *Timeline) Merge(a, b fence.Fence) fence.Fence {
	fa, fb := t.unwrap(a), t.unwrap(b)
	switch {
	case fa == nil && fb == nil:
		return nil
	case fa == nil:
		return t.Dup(fb)
	case fb == nil:
		return t.Dup(fa)
	}

	points := make([]*point, 0, len(fa.points)+len(fb.points))
	points = append(points, fa.points...)
	points = append(points, fb.points...)
	return &Fence{
		fd:     t.allocFD(),
		name:   fa.name + "+" + fb.name,
		points: points,
	}
}

func (t *Timeline) Wait(f fence.Fence) error {
	sf := t.unwrap(f)
	if sf == nil {
		return nil
	}

	timer := time.NewTimer(t.options.WaitTimeout)
	defer timer.Stop()

	for _, p := range sf.points {
		select {
		case <-p.done:
		case <-timer.C:
			t.logger.Warn("fence wait timed out", slog.String("Name", sf.name), slog.Int("FD", p.fd))
			return errors.Wrapf(fence.TimeoutError, "fence %s (point %d)", sf.name, p.fd)
		}
	}
	return nil
}

func (t *Timeline) Create(rawFD int, name string) fence.Fence {
	if rawFD < 0 {
		return nil
	}

	t.mutex.Lock()
	p, ok := t.points.Get(rawFD)
	t.mutex.Unlock()

	if !ok {
		// Retired descriptors and ones this timeline never issued are already signaled
		p = &point{fd: rawFD, done: make(chan struct{}), signaled: true}
		close(p.done)
	}

	return &Fence{
		fd:     rawFD,
		name:   name,
		points: []*point{p},
	}
}

func (t *Timeline) allocFD() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	fd := t.nextFD
	t.nextFD++
	return fd
}

func (t *Timeline) unwrap(f fence.Fence) *Fence {
	if f == nil {
		return nil
	}
	sf, ok := f.(*Fence)
	if !ok {
		panic("soft timeline received a fence it did not create")
	}
	if sf == nil {
		return nil
	}
	return sf
}
