// Package gralloc describes the graphics buffer allocator consumed by the tone-map pool. Buffers are
// addressed by opaque handles; the allocator owns the backing memory.
package gralloc

//go:generate mockgen -source allocator.go -destination mocks/mock_allocator.go

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/fence"
)

var (
	// OutOfMemoryError is returned from Allocate when the request cannot be satisfied
	OutOfMemoryError = errors.New("graphics buffer allocation failed")
	// UnknownHandleError is returned when a handle does not identify a live buffer
	UnknownHandleError = errors.New("unknown buffer handle")
	// MapError is returned when a buffer cannot be made CPU-visible
	MapError = errors.New("buffer cannot be mapped")
)

// Handle is an opaque reference to an allocated buffer. The zero Handle is never issued.
type Handle uint64

// UsageFlags describe how a buffer will be accessed
type UsageFlags int32

var usageFlagsMapping = common.NewFlagStringMapping[UsageFlags]()

func (f UsageFlags) Register(str string) {
	usageFlagsMapping.Register(f, str)
}
func (f UsageFlags) String() string {
	return usageFlagsMapping.FlagsToString(f)
}

const (
	// UsageGPURender indicates the buffer is a render target of a GPU client
	UsageGPURender UsageFlags = 1 << iota
	// UsageGPUTexture indicates the buffer is sampled by a GPU client
	UsageGPUTexture
	// UsageComposer indicates the buffer is scanned out by the display hardware
	UsageComposer
	// UsageCPURead indicates the buffer may be mapped for reading
	UsageCPURead
)

func init() {
	UsageGPURender.Register("UsageGPURender")
	UsageGPUTexture.Register("UsageGPUTexture")
	UsageComposer.Register("UsageComposer")
	UsageCPURead.Register("UsageCPURead")
}

// BufferConfig describes a requested buffer. Width and Height are unaligned; the allocator
// may pad them.
type BufferConfig struct {
	Width  int
	Height int
	Format core1_0.Format
	Secure bool
	Usage  UsageFlags
}

// Buffer is the allocation metadata returned by Allocate
type Buffer struct {
	Handle Handle
	// FD is the shareable descriptor of the backing memory
	FD int
	// Size is the allocation size in bytes, including padding
	Size int
	// ID is a process-unique identifier of the backing memory
	ID uint64
}

// Allocator is the graphics buffer allocator
type Allocator interface {
	Allocate(config BufferConfig) (Buffer, error)
	Free(buffer Buffer) error
	// Map waits for acquire and returns the CPU-visible contents of the buffer
	Map(handle Handle, acquire fence.Fence) ([]byte, error)

	UnalignedWidth(handle Handle) (int, error)
	UnalignedHeight(handle Handle) (int, error)
	Width(handle Handle) (int, error)
	Height(handle Handle) (int, error)
	AllocationSize(handle Handle) (int, error)
}
