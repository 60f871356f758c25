// Package tmpool manages the GPU tone-mapping sessions used while composing a frame. Each frame the
// pool finds the layers that asked to be tone mapped, hands every one of them a session whose
// configuration matches (reusing an idle one where it can), and blits into the session's next
// intermediate buffer. After the frame is committed, Reclaim frees every session the frame did not
// use.
package tmpool

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/bufutils"
	"github.com/vkngwrapper/tonemap/dispatch"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/internal/utils"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
	"golang.org/x/exp/slog"
)

const (
	// DefaultRingSize is the number of intermediate buffers per session when none is provided
	DefaultRingSize int = 2
	defaultDumpDir      = "."
)

// CreateOptions contains optional settings when creating a pool. It is valid to leave all the fields
// blank.
type CreateOptions struct {
	Flags CreateFlags

	// RingSize is the number of intermediate buffers each session rotates through. With fewer than
	// two, a session writes the buffer the display is still scanning out and must wait for it.
	RingSize int

	// DumpDir is the directory frame dumps are written under. Zero selects the working directory.
	DumpDir string
}

// Statistics are the running counters of a pool
type Statistics struct {
	// Sessions is the number of live sessions
	Sessions        int
	ClaimedSessions int
	// Buffers counts the intermediate buffers of live sessions
	Buffers bufutils.Statistics

	Frames       int
	FastPathHits int
	Blits        int

	SessionsCreated   int
	SessionsDestroyed int
	Terminations      int
}

// Pool owns the tone-map sessions of one display
type Pool struct {
	deps    sessionDeps
	options CreateOptions

	mutex       utils.OptionalMutex
	sessions    sessionArena
	framebuffer SessionHandle

	dumpFrameCount int
	dumpFrameIndex int

	stats Statistics
}

// New creates an empty pool
//
// allocator - Allocates the intermediate buffers
//
// factory - Creates the compute contexts that perform the blits
//
// fences - The platform fence operations
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, allocator gralloc.Allocator, factory tonemap.Factory, fences fence.Primitives, options CreateOptions) (*Pool, error) {
	if allocator == nil {
		return nil, errors.New("tmpool.New requires an allocator")
	}
	if factory == nil {
		return nil, errors.New("tmpool.New requires a tonemapper factory")
	}
	if fences == nil {
		return nil, errors.New("tmpool.New requires fence primitives")
	}

	if options.RingSize == 0 {
		options.RingSize = DefaultRingSize
	} else if options.RingSize < 0 {
		return nil, errors.Newf("tmpool.CreateOptions.RingSize must not be negative, but was %d", options.RingSize)
	}
	if options.DumpDir == "" {
		options.DumpDir = defaultDumpDir
	}

	return &Pool{
		deps: sessionDeps{
			logger:    utils.LoggerOrDiscard(logger),
			allocator: allocator,
			factory:   factory,
			fences:    fences,
		},
		options: options,
		mutex:   utils.OptionalMutex{UseMutex: options.Flags&CreateInternallySynchronized != 0},
	}, nil
}

func (p *Pool) logger() *slog.Logger {
	return p.deps.logger
}

func (p *Pool) dispatchFlags() dispatch.CreateFlags {
	// The pool serializes every call into a session
	flags := dispatch.CreateExternallySynchronized
	if p.options.Flags&CreateWorkerThread != 0 {
		flags |= dispatch.CreateWorkerThread
	}
	return flags
}

// HandleFrame tone maps every layer of stack that requested it. Each such layer's input buffer is
// rewritten to point at the session's intermediate buffer, with the blit's fence as the acquire
// fence.
//
// If the framebuffer target needs tone mapping while no layer is GPU composed, the framebuffer has
// not been redrawn and the tone-mapped framebuffer from the previous frame is presented again. The
// frame is complete at that point and later layers are not examined.
//
// If a session cannot be acquired or a blit fails, every session is destroyed and the error is
// returned.
func (p *Pool) HandleFrame(stack *layer.Stack) (common.VkResult, error) {
	p.logger().Debug("Pool::HandleFrame", slog.Int("Layers", len(stack.Layers)))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stats.Frames++
	gpuCount := 0

	for index, l := range stack.Layers {
		if l.Composition == layer.CompositionGPU {
			gpuCount++
		}

		if !l.NeedsToneMap() {
			continue
		}

		if l.Composition == layer.CompositionGPUTarget && gpuCount == 0 {
			session, ok := p.sessions.get(p.framebuffer)
			if ok && !session.claimed {
				session.UpdateBuffer(nil, &l.InputBuffer)
				session.bind(index)
				session.claimed = true
				p.stats.FastPathHits++
				return core1_0.VKSuccess, nil
			}
		}

		handle, session, err := p.acquireSession(l, stack.BlendCS)
		if err == nil && l.Composition == layer.CompositionGPUTarget {
			p.framebuffer = handle
		}
		if err == nil {
			err = p.toneMap(l, session)
		}
		if err != nil {
			p.logger().Error("tone mapping failed, terminating all sessions",
				slog.Int("Layer", index),
				slog.Any("error", err),
			)
			p.terminate()
			return Result(err), err
		}

		session.bind(index)
	}

	return core1_0.VKSuccess, nil
}

func (p *Pool) toneMap(l *layer.Layer, session *Session) error {
	merged := p.deps.fences.Merge(session.ring.current().releaseFence, l.InputBuffer.AcquireFence)

	blitFence, err := session.blit(l, merged)
	if err != nil {
		return err
	}
	p.stats.Blits++

	p.dumpOutput(session, blitFence)
	session.UpdateBuffer(blitFence, &l.InputBuffer)
	return nil
}

// AcquireSession claims a session able to tone map l in blendCS. The first idle compatible session,
// in creation order, is reused and advanced to its next buffer; if there is none a new session is
// created.
func (p *Pool) AcquireSession(l *layer.Layer, blendCS layer.PrimariesTransfer) (SessionHandle, error) {
	p.logger().Debug("Pool::AcquireSession")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	handle, _, err := p.acquireSession(l, blendCS)
	return handle, err
}

func (p *Pool) acquireSession(l *layer.Layer, blendCS layer.PrimariesTransfer) (SessionHandle, *Session, error) {
	if !l.Lut3D.Usable() {
		return SessionHandle{}, nil, errors.Wrapf(ErrParameter,
			"3D lookup table has %d entries with dimension %d", len(l.Lut3D.Entries), l.Lut3D.Dim)
	}

	var handle SessionHandle
	var found *Session
	p.sessions.each(func(h SessionHandle, session *Session) bool {
		if !session.claimed && session.IsCompatible(l, blendCS) {
			handle = h
			found = session
			return true
		}
		return false
	})
	if found != nil {
		found.reuse()
		return handle, found, nil
	}

	session, err := newSession(p.deps, l, blendCS, p.options.RingSize, p.dispatchFlags())
	if err != nil {
		return SessionHandle{}, nil, err
	}
	session.claimed = true

	handle = p.sessions.insert(session)
	p.stats.SessionsCreated++
	p.logger().Debug("tone map session created",
		slog.String("Handle", handle.String()),
		slog.String("Direction", session.config.Direction.String()),
		slog.Int("Width", session.config.Width),
		slog.Int("Height", session.config.Height),
	)
	return handle, session, nil
}

// Reclaim runs after stack has been committed. Sessions used by the frame take the release fence
// the display left in their layer's buffer and become idle. Sessions the frame did not use are
// destroyed.
func (p *Pool) Reclaim(stack *layer.Stack) {
	p.logger().Debug("Pool::Reclaim")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, handle := range p.sessions.handles() {
		session, _ := p.sessions.get(handle)
		if !session.claimed {
			p.destroySession(handle)
			continue
		}

		l := stack.Layer(session.layerIndex)
		if l == nil {
			p.logger().Warn("claimed tone map session is bound to a missing layer",
				slog.String("Handle", handle.String()),
				slog.Int("Layer", session.layerIndex),
			)
			session.SetReleaseFence(nil)
		} else {
			session.SetReleaseFence(l.InputBuffer.ReleaseFence)
		}
		session.claimed = false
	}

	bufutils.DebugValidate(lockedPool{pool: p})
}

func (p *Pool) destroySession(handle SessionHandle) {
	session, ok := p.sessions.remove(handle)
	if !ok {
		return
	}
	if handle == p.framebuffer {
		p.framebuffer = SessionHandle{}
	}

	err := session.destroy()
	if err != nil {
		p.logger().Error("failed to destroy tone map session", slog.String("Handle", handle.String()), slog.Any("error", err))
	}
	p.stats.SessionsDestroyed++
	p.logger().Debug("tone map session closed", slog.String("Handle", handle.String()))
}

// Terminate destroys every session
func (p *Pool) Terminate() {
	p.logger().Debug("Pool::Terminate")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.terminate()
}

func (p *Pool) terminate() {
	if p.sessions.len() == 0 {
		return
	}

	handles := p.sessions.handles()
	for i := len(handles) - 1; i >= 0; i-- {
		p.destroySession(handles[i])
	}
	p.framebuffer = SessionHandle{}
	p.stats.Terminations++
}

// Session returns the live session identified by handle
func (p *Pool) Session(handle SessionHandle) (*Session, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.sessions.get(handle)
}

// Sessions returns the handles of every live session in creation order
func (p *Pool) Sessions() []SessionHandle {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.sessions.handles()
}

// FramebufferSession returns the handle of the session that last tone mapped the framebuffer
// target. The handle is nil if that session has since been destroyed.
func (p *Pool) FramebufferSession() SessionHandle {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, ok := p.sessions.get(p.framebuffer); !ok {
		return SessionHandle{}
	}
	return p.framebuffer
}

// Stats returns a snapshot of the pool's counters
func (p *Pool) Stats() Statistics {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.statsAfterLock()
}

func (p *Pool) statsAfterLock() Statistics {
	stats := p.stats
	p.sessions.each(func(_ SessionHandle, session *Session) bool {
		stats.Sessions++
		if session.claimed {
			stats.ClaimedSessions++
		}
		buffers := session.ring.statistics()
		stats.Buffers.AddStatistics(&buffers)
		return false
	})
	return stats
}

// Validate verifies the pool's bookkeeping
func (p *Pool) Validate() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.validateAfterLock()
}

// lockedPool validates a pool whose mutex is already held by the caller
type lockedPool struct {
	pool *Pool
}

func (l lockedPool) Validate() error {
	return l.pool.validateAfterLock()
}

func (p *Pool) validateAfterLock() error {
	live := 0
	for _, slot := range p.sessions.slots {
		if slot.session != nil {
			live++
		}
	}
	if live != p.sessions.len() {
		return errors.Newf("the pool has %d occupied slots but lists %d sessions", live, p.sessions.len())
	}
	if live+len(p.sessions.freeList) != len(p.sessions.slots) {
		return errors.Newf("the pool has %d slots but %d are occupied and %d are free",
			len(p.sessions.slots), live, len(p.sessions.freeList))
	}

	var err error
	p.sessions.each(func(handle SessionHandle, session *Session) bool {
		switch {
		case session.destroyed:
			err = errors.Newf("session %s was destroyed but is still listed", handle)
		case session.tonemapper == nil:
			err = errors.Newf("session %s has no tonemapper", handle)
		case session.ring.len() != p.options.RingSize:
			err = errors.Newf("session %s has %d buffers but the ring size is %d", handle, session.ring.len(), p.options.RingSize)
		case session.ring.cursor < 0 || session.ring.cursor >= session.ring.len():
			err = errors.Newf("session %s has cursor %d outside of its ring", handle, session.ring.cursor)
		}
		return err != nil
	})
	return err
}
