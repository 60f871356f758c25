// Package heap is a gralloc.Allocator backed by host memory. It pads buffers to a stride alignment the
// way display allocators do, enforces an optional byte budget, and keeps statistics about live buffers.
// It is intended for headless pipelines and tests.
package heap

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/bufutils"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/internal/utils"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized ensures that the allocator is not synchronized internally. The
	// consumer must guarantee that it is used from one goroutine at a time.
	CreateExternallySynchronized CreateFlags = 1 << iota
	// CreateZeroOnFree clears buffer contents before the memory is released, so that protected
	// content does not survive in freed memory
	CreateZeroOnFree
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
	CreateZeroOnFree.Register("CreateZeroOnFree")
}

const (
	defaultStrideAlignment uint = 64
	defaultBytesPerPixel   int  = 4
	// file descriptors 0-2 are never handed out
	firstFD int = 3
)

// CreateOptions contains optional settings when creating an allocator. It is valid to leave all
// fields blank.
type CreateOptions struct {
	Flags CreateFlags

	// StrideAlignment is the pixel alignment of each row. It must be a power of two. Zero selects 64.
	StrideAlignment uint
	// HeightAlignment is the row alignment of each buffer. It must be a power of two. Zero selects 1.
	HeightAlignment uint

	// HeapSizeLimit is the maximum number of bytes that may be live at once. Zero means no limit.
	HeapSizeLimit int

	// BytesPerPixel overrides the pixel size of individual formats
	BytesPerPixel map[core1_0.Format]int
	// DefaultBytesPerPixel is used for formats missing from BytesPerPixel. Zero selects 4.
	DefaultBytesPerPixel int

	// Fences is used by Map to wait on acquire fences. If it is nil, Map does not wait.
	Fences fence.Primitives
}

type buffer struct {
	gralloc.Buffer
	config        gralloc.BufferConfig
	alignedWidth  int
	alignedHeight int
	data          []byte
}

// Allocator is a host-memory graphics allocator
type Allocator struct {
	logger  *slog.Logger
	options CreateOptions

	mutex      utils.OptionalRWMutex
	buffers    *swiss.Map[gralloc.Handle, *buffer]
	nextHandle gralloc.Handle
	nextFD     int
	nextID     uint64
	stats      bufutils.DetailedStatistics
}

var _ gralloc.Allocator = &Allocator{}

func New(logger *slog.Logger, options CreateOptions) (*Allocator, error) {
	if options.StrideAlignment == 0 {
		options.StrideAlignment = defaultStrideAlignment
	}
	if options.HeightAlignment == 0 {
		options.HeightAlignment = 1
	}
	if options.DefaultBytesPerPixel == 0 {
		options.DefaultBytesPerPixel = defaultBytesPerPixel
	}

	err := bufutils.CheckPow2(options.StrideAlignment, "heap.CreateOptions.StrideAlignment")
	if err != nil {
		return nil, err
	}
	err = bufutils.CheckPow2(options.HeightAlignment, "heap.CreateOptions.HeightAlignment")
	if err != nil {
		return nil, err
	}
	if options.HeapSizeLimit < 0 {
		return nil, errors.Newf("heap.CreateOptions.HeapSizeLimit must not be negative, but was %d", options.HeapSizeLimit)
	}

	allocator := &Allocator{
		logger:     utils.LoggerOrDiscard(logger),
		options:    options,
		mutex:      utils.OptionalRWMutex{UseMutex: options.Flags&CreateExternallySynchronized == 0},
		buffers:    swiss.NewMap[gralloc.Handle, *buffer](8),
		nextHandle: 1,
		nextFD:     firstFD,
	}
	allocator.stats.Clear()

	return allocator, nil
}

func (a *Allocator) bytesPerPixel(format core1_0.Format) int {
	if size, ok := a.options.BytesPerPixel[format]; ok {
		return size
	}
	return a.options.DefaultBytesPerPixel
}

func (a *Allocator) Allocate(config gralloc.BufferConfig) (gralloc.Buffer, error) {
	a.logger.Debug("Allocator::Allocate",
		slog.Int("Width", config.Width),
		slog.Int("Height", config.Height),
		slog.Bool("Secure", config.Secure),
		slog.String("Usage", config.Usage.String()),
	)

	err := bufutils.CheckExtent(config.Width, config.Height)
	if err != nil {
		return gralloc.Buffer{}, err
	}

	bufutils.DebugCheckPow2(a.options.StrideAlignment, "StrideAlignment")
	alignedWidth := bufutils.AlignUp(config.Width, a.options.StrideAlignment)
	alignedHeight := bufutils.AlignUp(config.Height, a.options.HeightAlignment)
	size := alignedWidth * alignedHeight * a.bytesPerPixel(config.Format)

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.options.HeapSizeLimit > 0 && a.stats.BufferBytes+size > a.options.HeapSizeLimit {
		return gralloc.Buffer{}, errors.Wrapf(gralloc.OutOfMemoryError,
			"%d bytes requested with %d of %d bytes in use", size, a.stats.BufferBytes, a.options.HeapSizeLimit)
	}

	a.nextID++
	b := &buffer{
		Buffer: gralloc.Buffer{
			Handle: a.nextHandle,
			FD:     a.nextFD,
			Size:   size,
			ID:     a.nextID,
		},
		config:        config,
		alignedWidth:  alignedWidth,
		alignedHeight: alignedHeight,
		data:          make([]byte, size),
	}
	a.nextHandle++
	a.nextFD++

	a.buffers.Put(b.Handle, b)
	a.stats.AddBuffer(size)

	return b.Buffer, nil
}

func (a *Allocator) Free(buf gralloc.Buffer) error {
	a.logger.Debug("Allocator::Free", slog.Uint64("ID", buf.ID))

	a.mutex.Lock()
	defer a.mutex.Unlock()

	b, ok := a.buffers.Get(buf.Handle)
	if !ok || b.ID != buf.ID {
		return errors.Wrapf(gralloc.UnknownHandleError, "attempted to free handle %d (id %d)", buf.Handle, buf.ID)
	}

	if a.options.Flags&CreateZeroOnFree != 0 {
		for i := range b.data {
			b.data[i] = 0
		}
	}

	a.buffers.Delete(buf.Handle)
	a.stats.RemoveBuffer(b.Size)
	b.data = nil

	return nil
}

func (a *Allocator) Map(handle gralloc.Handle, acquire fence.Fence) ([]byte, error) {
	a.logger.Debug("Allocator::Map")

	if acquire != nil && a.options.Fences != nil {
		err := a.options.Fences.Wait(acquire)
		if err != nil {
			return nil, err
		}
	}

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	b, err := a.lookup(handle)
	if err != nil {
		return nil, err
	}
	if b.config.Secure {
		return nil, errors.Wrapf(gralloc.MapError, "handle %d is a secure buffer", handle)
	}

	return b.data, nil
}

func (a *Allocator) lookup(handle gralloc.Handle) (*buffer, error) {
	b, ok := a.buffers.Get(handle)
	if !ok {
		return nil, errors.Wrapf(gralloc.UnknownHandleError, "handle %d", handle)
	}
	return b, nil
}

func (a *Allocator) query(handle gralloc.Handle, get func(b *buffer) int) (int, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	b, err := a.lookup(handle)
	if err != nil {
		return 0, err
	}
	return get(b), nil
}

func (a *Allocator) UnalignedWidth(handle gralloc.Handle) (int, error) {
	return a.query(handle, func(b *buffer) int { return b.config.Width })
}

func (a *Allocator) UnalignedHeight(handle gralloc.Handle) (int, error) {
	return a.query(handle, func(b *buffer) int { return b.config.Height })
}

func (a *Allocator) Width(handle gralloc.Handle) (int, error) {
	return a.query(handle, func(b *buffer) int { return b.alignedWidth })
}

func (a *Allocator) Height(handle gralloc.Handle) (int, error) {
	return a.query(handle, func(b *buffer) int { return b.alignedHeight })
}

func (a *Allocator) AllocationSize(handle gralloc.Handle) (int, error) {
	return a.query(handle, func(b *buffer) int { return b.Size })
}

// Statistics returns a snapshot of the allocator's buffer statistics
func (a *Allocator) Statistics() bufutils.DetailedStatistics {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.stats
}

// Validate verifies that the running statistics agree with the live buffer table
func (a *Allocator) Validate() error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	count := 0
	bytes := 0
	a.buffers.Iter(func(_ gralloc.Handle, b *buffer) bool {
		count++
		bytes += b.Size
		return false
	})

	if count != a.stats.BufferCount {
		return errors.Newf("the allocator lists %d live buffers but %d are present", a.stats.BufferCount, count)
	}
	if bytes != a.stats.BufferBytes {
		return errors.Newf("the allocator lists %d live bytes but %d are present", a.stats.BufferBytes, bytes)
	}
	return nil
}

// BuildStatsString returns a JSON document describing the allocator. If detailed is true, every live
// buffer is listed.
func (a *Allocator) BuildStatsString(detailed bool) string {
	a.logger.Debug("Allocator::BuildStatsString")

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	total := obj.Name("Total").Object()
	total.Name("BufferCount").Int(a.stats.BufferCount)
	total.Name("BufferBytes").Int(a.stats.BufferBytes)
	total.Name("AllocationCount").Int(a.stats.AllocationCount)
	total.Name("FreeCount").Int(a.stats.FreeCount)
	total.Name("PeakBytes").Int(a.stats.PeakBytes)
	if a.stats.BufferCount > 0 {
		total.Name("BufferSizeMin").Int(a.stats.BufferSizeMin)
		total.Name("BufferSizeMax").Int(a.stats.BufferSizeMax)
	}
	total.End()

	if a.options.HeapSizeLimit > 0 {
		obj.Name("HeapSizeLimit").Int(a.options.HeapSizeLimit)
	}

	if detailed {
		buffers := obj.Name("Buffers").Object()
		a.buffers.Iter(func(handle gralloc.Handle, b *buffer) bool {
			entry := buffers.Name(strconv.FormatUint(uint64(handle), 10)).Object()
			entry.Name("ID").Int(int(b.ID))
			entry.Name("FD").Int(b.FD)
			entry.Name("Size").Int(b.Size)
			entry.Name("Width").Int(b.config.Width)
			entry.Name("Height").Int(b.config.Height)
			entry.Name("Stride").Int(b.alignedWidth)
			entry.Name("Secure").Bool(b.config.Secure)
			entry.Name("Usage").String(b.config.Usage.String())
			entry.End()
			return false
		})
		buffers.End()
	}

	obj.End()

	return string(writer.Bytes())
}
