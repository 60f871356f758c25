package bufutils

import "math"

// Statistics are running totals of the buffers held by an allocator or a session pool
type Statistics struct {
	BufferCount int
	BufferBytes int
}

func (s *Statistics) Clear() {
	s.BufferCount = 0
	s.BufferBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BufferCount += other.BufferCount
	s.BufferBytes += other.BufferBytes
}

// DetailedStatistics extends Statistics with lifetime counters and size extremes
type DetailedStatistics struct {
	Statistics
	// AllocationCount is the number of buffers ever allocated
	AllocationCount int
	// FreeCount is the number of buffers ever freed
	FreeCount int
	// PeakBytes is the largest value BufferBytes has held
	PeakBytes     int
	BufferSizeMin int
	BufferSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.AllocationCount = 0
	s.FreeCount = 0
	s.PeakBytes = 0
	s.BufferSizeMin = math.MaxInt
	s.BufferSizeMax = 0
}

func (s *DetailedStatistics) AddBuffer(size int) {
	s.BufferCount++
	s.BufferBytes += size
	s.AllocationCount++

	if s.BufferBytes > s.PeakBytes {
		s.PeakBytes = s.BufferBytes
	}

	if size < s.BufferSizeMin {
		s.BufferSizeMin = size
	}

	if size > s.BufferSizeMax {
		s.BufferSizeMax = size
	}
}

func (s *DetailedStatistics) RemoveBuffer(size int) {
	s.BufferCount--
	s.BufferBytes -= size
	s.FreeCount++
}
