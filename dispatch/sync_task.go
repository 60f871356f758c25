// Package dispatch routes commands into an external compute context through a single serialized entry
// point. Every command is a blocking round trip: PerformTask returns only after the handler has finished
// with it. Nothing is buffered or queued.
package dispatch

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/tonemap/internal/utils"
	"golang.org/x/exp/slog"
)

// ClosedError is returned from PerformTask after Close
var ClosedError = errors.New("task dispatcher is closed")

// Handler executes commands. OnTask is never called concurrently with itself for one SyncTask.
type Handler[C comparable] interface {
	OnTask(code C, taskContext any)
}

// CreateFlags indicate specific dispatcher behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateWorkerThread runs every command on a dedicated goroutine that is locked to its OS thread,
	// for compute contexts that must only be touched from the thread that created them. Without it,
	// commands run on the calling goroutine.
	CreateWorkerThread CreateFlags = 1 << iota
	// CreateExternallySynchronized disables the internal mutex. The consumer must guarantee that
	// PerformTask and Close are called from one goroutine at a time.
	CreateExternallySynchronized
)

func init() {
	CreateWorkerThread.Register("CreateWorkerThread")
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}

type request[C comparable] struct {
	code        C
	taskContext any
}

// SyncTask is a synchronous command dispatcher
type SyncTask[C comparable] struct {
	logger  *slog.Logger
	handler Handler[C]
	flags   CreateFlags

	mutex    utils.OptionalMutex
	closed   bool
	requests chan request[C]
	complete chan struct{}
	exited   chan struct{}
}

func New[C comparable](logger *slog.Logger, handler Handler[C], flags CreateFlags) *SyncTask[C] {
	task := &SyncTask[C]{
		logger:  utils.LoggerOrDiscard(logger),
		handler: handler,
		flags:   flags,
		mutex:   utils.OptionalMutex{UseMutex: flags&CreateExternallySynchronized == 0},
	}

	if flags&CreateWorkerThread != 0 {
		task.requests = make(chan request[C])
		task.complete = make(chan struct{})
		task.exited = make(chan struct{})
		go task.run()
	}

	return task
}

func (t *SyncTask[C]) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.exited)

	for req := range t.requests {
		t.handler.OnTask(req.code, req.taskContext)
		t.complete <- struct{}{}
	}
}

// PerformTask runs code on the handler and blocks until it has completed
func (t *SyncTask[C]) PerformTask(code C, taskContext any) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.closed {
		return errors.Wrapf(ClosedError, "attempted to perform task %v", code)
	}

	if t.requests == nil {
		t.handler.OnTask(code, taskContext)
		return nil
	}

	t.requests <- request[C]{code: code, taskContext: taskContext}
	<-t.complete
	return nil
}

// Close stops the dispatcher. Any worker goroutine has exited when Close returns. Calling Close more
// than once is a no-op.
func (t *SyncTask[C]) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.closed {
		return
	}
	t.closed = true

	if t.requests != nil {
		close(t.requests)
		<-t.exited
	}
	t.logger.Debug("SyncTask::Close", slog.String("Flags", t.flags.String()))
}
