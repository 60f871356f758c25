package tmpool

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/tonemap/dispatch"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
	"golang.org/x/exp/slog"
)

// TaskCode is a command sent to a session's compute context
type TaskCode int32

const (
	TaskInstantiate TaskCode = iota
	TaskBlit
	TaskDestroy
)

var taskCodeMapping = map[TaskCode]string{
	TaskInstantiate: "TaskInstantiate",
	TaskBlit:        "TaskBlit",
	TaskDestroy:     "TaskDestroy",
}

func (c TaskCode) String() string {
	str, ok := taskCodeMapping[c]
	if !ok {
		return "unknown TaskCode"
	}
	return str
}

type instantiateContext struct {
	lut *tonemap.Lut3D
}

type blitContext struct {
	src    gralloc.Handle
	merged fence.Fence

	fence fence.Fence
	err   error
}

type sessionDeps struct {
	logger    *slog.Logger
	allocator gralloc.Allocator
	factory   tonemap.Factory
	fences    fence.Primitives
}

// Session is a tone-mapping context for one configuration together with the ring of intermediate
// buffers it writes into. Sessions are owned by a Pool.
type Session struct {
	sessionDeps
	config Config

	task       *dispatch.SyncTask[TaskCode]
	tonemapper tonemap.Tonemapper
	ring       *bufferRing

	claimed    bool
	layerIndex int
	destroyed  bool
}

// newSession instantiates the compute context and then allocates the buffer ring. A backend that
// refuses the configuration produces ErrUnsupported; a failed buffer allocation produces
// ErrAllocation. Either way nothing created along the way survives.
func newSession(deps sessionDeps, l *layer.Layer, blendCS layer.PrimariesTransfer, ringSize int, dispatchFlags dispatch.CreateFlags) (*Session, error) {
	s := &Session{
		sessionDeps: deps,
		config:      NewConfig(l, blendCS),
		layerIndex:  -1,
	}
	s.task = dispatch.New[TaskCode](deps.logger, s, dispatchFlags)

	err := s.task.PerformTask(TaskInstantiate, &instantiateContext{lut: &l.Lut3D})
	if err != nil {
		s.task.Close()
		return nil, err
	}
	if s.tonemapper == nil {
		s.task.Close()
		return nil, errors.Wrapf(ErrUnsupported, "%s tonemapper for transfer %s in %s",
			s.config.Direction, s.config.Transfer, s.config.BlendCS)
	}

	s.ring, err = allocateRing(deps.allocator, gralloc.BufferConfig{
		Width:  s.config.Width,
		Height: s.config.Height,
		Format: s.config.Format,
		Secure: s.config.Secure,
		Usage:  gralloc.UsageGPURender | gralloc.UsageGPUTexture,
	}, ringSize)
	if err != nil {
		_ = s.task.PerformTask(TaskDestroy, nil)
		s.task.Close()
		return nil, errors.Mark(err, ErrAllocation)
	}

	return s, nil
}

func (s *Session) OnTask(code TaskCode, taskContext any) {
	switch code {
	case TaskInstantiate:
		ctx := taskContext.(*instantiateContext)
		var gridEntries []tonemap.Color10Bit
		gridSize := 0
		if ctx.lut.ValidGridEntries {
			gridEntries = ctx.lut.GridEntries
			gridSize = ctx.lut.GridSize
		}
		s.tonemapper = s.factory.NewTonemapper(s.config.Direction, ctx.lut.Entries, ctx.lut.Dim,
			gridEntries, gridSize, s.config.Secure)

	case TaskBlit:
		ctx := taskContext.(*blitContext)
		dst := s.ring.current().buffer.Handle
		rawFD, err := s.tonemapper.Blit(dst, ctx.src, s.fences.Dup(ctx.merged))
		if err != nil {
			ctx.err = errors.Wrapf(err, "failed to tone map handle %d into handle %d", ctx.src, dst)
			return
		}
		ctx.fence = s.fences.Create(rawFD, "tonemap")

	case TaskDestroy:
		if s.tonemapper != nil {
			s.tonemapper.Destroy()
			s.tonemapper = nil
		}
	}
}

// Config returns the configuration the session was created for
func (s *Session) Config() Config {
	return s.config
}

// Claimed reports whether a layer of the current frame is using the session
func (s *Session) Claimed() bool {
	return s.claimed
}

// LayerIndex is the index of the layer bound to the session, or -1 if no layer was ever bound
func (s *Session) LayerIndex() int {
	return s.layerIndex
}

// Cursor is the index of the ring buffer the session currently writes to
func (s *Session) Cursor() int {
	return s.ring.cursor
}

// CurrentBuffer is the ring buffer the session currently writes to
func (s *Session) CurrentBuffer() gralloc.Buffer {
	return s.ring.current().buffer
}

// IsCompatible reports whether the session can serve l. The dimensions are compared with what the
// allocator reports for the session's first buffer rather than the stored configuration.
func (s *Session) IsCompatible(l *layer.Layer, blendCS layer.PrimariesTransfer) bool {
	if DirectionOf(l) != s.config.Direction ||
		blendCS != s.config.BlendCS ||
		l.InputBuffer.ColorMetadata.Transfer != s.config.Transfer ||
		l.IsSecure() != s.config.Secure ||
		l.Request.Format != s.config.Format {
		return false
	}

	handle := s.ring.entries[0].buffer.Handle
	width, err := s.allocator.UnalignedWidth(handle)
	if err != nil {
		s.logger.Error("failed to query intermediate buffer width", slog.Any("error", err))
		return false
	}
	if l.Request.Width != width {
		return false
	}

	height, err := s.allocator.UnalignedHeight(handle)
	if err != nil {
		s.logger.Error("failed to query intermediate buffer height", slog.Any("error", err))
		return false
	}

	return l.Request.Height == height
}

func (s *Session) reuse() {
	s.ring.advance()
	s.claimed = true
}

func (s *Session) bind(layerIndex int) {
	s.layerIndex = layerIndex
}

// blit tone maps l's input buffer into the current ring buffer once merged has signaled
func (s *Session) blit(l *layer.Layer, merged fence.Fence) (fence.Fence, error) {
	ctx := &blitContext{
		src:    l.InputBuffer.Handle,
		merged: merged,
	}
	err := s.task.PerformTask(TaskBlit, ctx)
	if err != nil {
		return nil, err
	}
	return ctx.fence, ctx.err
}

// UpdateBuffer points buffer at the current ring buffer. The display will wait on acquire before
// reading it.
func (s *Session) UpdateBuffer(acquire fence.Fence, buffer *layer.Buffer) {
	current := s.ring.current()
	buffer.AcquireFence = acquire
	buffer.Size = current.buffer.Size
	buffer.FD = current.buffer.FD
	buffer.HandleID = current.buffer.ID
}

// SetReleaseFence records when the display stops reading the current ring buffer
func (s *Session) SetReleaseFence(release fence.Fence) {
	s.ring.current().releaseFence = release
}

// destroy releases the compute context and the ring. Only the first call does anything.
func (s *Session) destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	s.claimed = false

	err := s.task.PerformTask(TaskDestroy, nil)
	s.task.Close()

	return errors.CombineErrors(err, s.ring.free())
}
