// Package tonemap describes the GPU tone-mapping compute kernel consumed by the session pool. The kernel
// itself, including 3D lookup table application, is provided by a platform backend.
package tonemap

//go:generate mockgen -source tonemap.go -destination mocks/mock_tonemap.go

import (
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
)

// Direction selects which way dynamic range is converted
type Direction int32

const (
	// DirectionForward converts HDR content to SDR
	DirectionForward Direction = iota
	// DirectionInverse converts SDR content to HDR
	DirectionInverse
)

var directionMapping = map[Direction]string{
	DirectionForward: "DirectionForward",
	DirectionInverse: "DirectionInverse",
}

func (d Direction) String() string {
	str, ok := directionMapping[d]
	if !ok {
		return "unknown Direction"
	}
	return str
}

// Color10Bit is one lookup table sample
type Color10Bit struct {
	R, G, B uint16
}

// Lut3D is the 3D lookup table payload attached to a layer by the colour manager
type Lut3D struct {
	// Entries are the Dim^3 table samples
	Entries []Color10Bit
	Dim     int

	// GridEntries are an optional non-uniform sampling grid, only meaningful if ValidGridEntries is set
	GridEntries      []Color10Bit
	GridSize         int
	ValidGridEntries bool
}

// Usable reports whether the table carries enough data for a tonemapper: the entry array must be
// present and the dimension non-zero. Grid entries are optional.
func (l *Lut3D) Usable() bool {
	return len(l.Entries) > 0 && l.Dim != 0
}

// Tonemapper is a compute context that performs tone-mapping blits. It is created for one
// configuration and destroyed exactly once.
type Tonemapper interface {
	// Blit tone-maps src into dst once wait has signaled. It returns the raw descriptor of a fence
	// that signals when the blit completes, or a negative value if the backend produced none.
	Blit(dst, src gralloc.Handle, wait fence.Fence) (int, error)
	Destroy()
}

// Factory instantiates compute contexts
type Factory interface {
	// NewTonemapper returns nil if the backend does not support the requested configuration
	NewTonemapper(direction Direction, lut []Color10Bit, lutDim int, gridEntries []Color10Bit, gridSize int, secure bool) Tonemapper
}
