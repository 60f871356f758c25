package tmpool

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/tonemap/bufutils"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
)

type ringEntry struct {
	buffer gralloc.Buffer
	// releaseFence signals once the display has stopped reading buffer
	releaseFence fence.Fence
}

// bufferRing is a fixed set of intermediate buffers written round-robin. The cursor names the buffer
// the current frame writes to.
type bufferRing struct {
	allocator gralloc.Allocator
	entries   []ringEntry
	cursor    int
}

// allocateRing allocates every buffer up front. If any allocation fails the buffers already
// allocated are freed and no ring is returned.
func allocateRing(allocator gralloc.Allocator, config gralloc.BufferConfig, size int) (*bufferRing, error) {
	ring := &bufferRing{
		allocator: allocator,
		entries:   make([]ringEntry, 0, size),
	}

	for i := 0; i < size; i++ {
		buffer, err := allocator.Allocate(config)
		if err != nil {
			freeErr := ring.free()
			return nil, errors.CombineErrors(
				errors.Wrapf(err, "failed to allocate intermediate buffer %d of %d", i, size),
				freeErr,
			)
		}
		ring.entries = append(ring.entries, ringEntry{buffer: buffer})
	}

	return ring, nil
}

func (r *bufferRing) len() int {
	return len(r.entries)
}

func (r *bufferRing) advance() {
	r.cursor = (r.cursor + 1) % len(r.entries)
}

func (r *bufferRing) current() *ringEntry {
	return &r.entries[r.cursor]
}

func (r *bufferRing) statistics() bufutils.Statistics {
	var stats bufutils.Statistics
	for i := range r.entries {
		stats.BufferCount++
		stats.BufferBytes += r.entries[i].buffer.Size
	}
	return stats
}

// free releases every buffer still held by the ring. It keeps going after a failure and reports
// all failures together.
func (r *bufferRing) free() error {
	var result error
	for i := range r.entries {
		err := r.allocator.Free(r.entries[i].buffer)
		if err != nil {
			result = errors.CombineErrors(result, errors.Wrapf(err, "failed to free intermediate buffer %d", i))
		}
	}
	r.entries = nil
	r.cursor = 0
	return result
}
