package tmpool

import "github.com/vkngwrapper/core/v2/common"

// CreateFlags indicate specific pool behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateInternallySynchronized guards every pool method with a mutex. By default the pool
	// expects to be driven from a single compositor goroutine and takes no locks.
	CreateInternallySynchronized CreateFlags = 1 << iota
	// CreateWorkerThread runs each session's compute commands on a dedicated goroutine locked to
	// its OS thread. Backends that bind a GPU context to the creating thread need this.
	CreateWorkerThread
)

func init() {
	CreateInternallySynchronized.Register("CreateInternallySynchronized")
	CreateWorkerThread.Register("CreateWorkerThread")
}
