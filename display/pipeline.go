// Package display ties the tone-map pool into a display's frame loop. A Pipeline owns the pool for one
// display and runs each frame through tone mapping, commit and reclamation.
package display

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/internal/utils"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tmpool"
	"github.com/vkngwrapper/tonemap/tonemap"
	"golang.org/x/exp/slog"
)

// ClosedError is returned from Present after Close
var ClosedError = errors.New("display pipeline is closed")

// CommitFunc hands a tone-mapped stack to the display. It must fill in the release fence of every
// layer's input buffer before returning.
type CommitFunc func(stack *layer.Stack) error

// Options contains optional settings when creating a Pipeline
type Options struct {
	// Name identifies the display in logs
	Name string
	// Commit is called for every frame that was tone mapped successfully. If it is nil, frames are
	// reclaimed with whatever release fences the stack already carries.
	Commit CommitFunc
	// Pool is passed on to the pool
	Pool tmpool.CreateOptions
}

// Pipeline is the per-display owner of a tone-map pool
type Pipeline struct {
	logger  *slog.Logger
	options Options
	pool    *tmpool.Pool

	frames int
	closed bool
}

func New(logger *slog.Logger, allocator gralloc.Allocator, factory tonemap.Factory, fences fence.Primitives, options Options) (*Pipeline, error) {
	logger = utils.LoggerOrDiscard(logger)
	if options.Name != "" {
		logger = logger.With(slog.String("Display", options.Name))
	}

	pool, err := tmpool.New(logger, allocator, factory, fences, options.Pool)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		logger:  logger,
		options: options,
		pool:    pool,
	}, nil
}

// Pool returns the pipeline's tone-map pool
func (p *Pipeline) Pool() *tmpool.Pool {
	return p.pool
}

// Frames is the number of frames presented successfully
func (p *Pipeline) Frames() int {
	return p.frames
}

// Present tone maps, commits and reclaims one frame. If tone mapping fails the frame is not committed
// and the pool has already released every session.
func (p *Pipeline) Present(stack *layer.Stack) (common.VkResult, error) {
	p.logger.Debug("Pipeline::Present")

	if p.closed {
		return core1_0.VKErrorInitializationFailed, ClosedError
	}

	result, err := p.pool.HandleFrame(stack)
	if err != nil {
		return result, err
	}

	if p.options.Commit != nil {
		err = p.options.Commit(stack)
		if err != nil {
			p.logger.Error("commit failed", slog.Any("error", err))
			// The frame's sessions are still claimed and must become idle again
			p.pool.Reclaim(stack)
			return core1_0.VKErrorUnknown, errors.Wrap(err, "failed to commit tone-mapped frame")
		}
	}

	p.pool.Reclaim(stack)
	p.frames++
	return core1_0.VKSuccess, nil
}

// SetFrameDumpConfig dumps the output of the next count blits
func (p *Pipeline) SetFrameDumpConfig(count int) {
	p.pool.SetFrameDumpConfig(count)
}

// Close releases every session. The pipeline cannot be used afterwards.
func (p *Pipeline) Close() {
	p.logger.Debug("Pipeline::Close")

	if p.closed {
		return
	}
	p.closed = true
	p.pool.Terminate()
}
