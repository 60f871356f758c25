// Package fence describes the synchronization primitives the tone-map pool consumes. A Fence marks the
// completion of a prior GPU or display operation on a buffer. The nil Fence means "nothing to wait on"
// and is accepted by every Primitives method.
package fence

//go:generate mockgen -source fence.go -destination mocks/mock_fence.go

import "github.com/cockroachdb/errors"

// TimeoutError is returned from Wait when a fence does not signal within the platform's timeout
var TimeoutError = errors.New("fence wait timed out")

// Fence is an opaque reference to a synchronization point
type Fence interface {
	// FD is the platform file descriptor backing the fence, or -1 if there is none
	FD() int
	// Name is a debug label
	Name() string
}

// Primitives are the fence operations provided by the platform
type Primitives interface {
	// Dup returns a new reference to the same synchronization point as f. Dup(nil) is nil.
	Dup(f Fence) Fence
	// Merge returns a fence that signals once both a and b have signaled. If only one of the
	// two is non-nil, a duplicate of it is returned. Merge(nil, nil) is nil.
	Merge(a, b Fence) Fence
	// Wait blocks until f has signaled. Wait(nil) returns immediately.
	Wait(f Fence) error
	// Create wraps a raw file descriptor returned by a driver. A negative rawFD produces nil.
	Create(rawFD int, name string) Fence
}

// FD returns f.FD(), or -1 for the nil fence
func FD(f Fence) int {
	if f == nil {
		return -1
	}
	return f.FD()
}
