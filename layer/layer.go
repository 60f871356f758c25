// Package layer holds the per-frame layer stack a compositor hands to the tone-map pool. Only the
// fields the pool reads or writes are modeled.
package layer

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/tonemap"
)

// Composition is the strategy the compositor selected for a layer
type Composition int32

const (
	// CompositionDevice layers are composed by the display hardware
	CompositionDevice Composition = iota
	// CompositionGPU layers are drawn into the framebuffer target by the GPU
	CompositionGPU
	// CompositionGPUTarget is the framebuffer target that GPU-composed layers are drawn into
	CompositionGPUTarget
	// CompositionCursor layers are shown on a hardware cursor plane
	CompositionCursor
)

var compositionMapping = map[Composition]string{
	CompositionDevice:    "CompositionDevice",
	CompositionGPU:       "CompositionGPU",
	CompositionGPUTarget: "CompositionGPUTarget",
	CompositionCursor:    "CompositionCursor",
}

func (c Composition) String() string {
	str, ok := compositionMapping[c]
	if !ok {
		return "unknown Composition"
	}
	return str
}

type ColorPrimaries int32

const (
	PrimariesBT709 ColorPrimaries = iota
	PrimariesBT2020
	PrimariesDCIP3
	PrimariesDisplayP3
)

var primariesMapping = map[ColorPrimaries]string{
	PrimariesBT709:     "PrimariesBT709",
	PrimariesBT2020:    "PrimariesBT2020",
	PrimariesDCIP3:     "PrimariesDCIP3",
	PrimariesDisplayP3: "PrimariesDisplayP3",
}

func (p ColorPrimaries) String() string {
	str, ok := primariesMapping[p]
	if !ok {
		return "unknown ColorPrimaries"
	}
	return str
}

type Transfer int32

const (
	TransferSRGB Transfer = iota
	TransferLinear
	TransferGamma22
	// TransferSMPTE2084 is the perceptual quantizer curve used by HDR10
	TransferSMPTE2084
	TransferHLG
)

var transferMapping = map[Transfer]string{
	TransferSRGB:      "TransferSRGB",
	TransferLinear:    "TransferLinear",
	TransferGamma22:   "TransferGamma22",
	TransferSMPTE2084: "TransferSMPTE2084",
	TransferHLG:       "TransferHLG",
}

func (t Transfer) String() string {
	str, ok := transferMapping[t]
	if !ok {
		return "unknown Transfer"
	}
	return str
}

// PrimariesTransfer identifies a colour space. The blend colour space of a stack is the space
// layers are composed in.
type PrimariesTransfer struct {
	Primaries ColorPrimaries
	Transfer  Transfer
}

func (p PrimariesTransfer) String() string {
	return p.Primaries.String() + "/" + p.Transfer.String()
}

// ColorMetadata describes the content of an input buffer
type ColorMetadata struct {
	Primaries ColorPrimaries
	Transfer  Transfer
}

// BufferFlags describe the content of an input buffer
type BufferFlags int32

var bufferFlagsMapping = common.NewFlagStringMapping[BufferFlags]()

func (f BufferFlags) Register(str string) {
	bufferFlagsMapping.Register(f, str)
}
func (f BufferFlags) String() string {
	return bufferFlagsMapping.FlagsToString(f)
}

const (
	// BufferHDR indicates the content is high dynamic range
	BufferHDR BufferFlags = 1 << iota
	BufferSecure
	BufferVideo
)

// RequestFlags are the compositor's requests for a layer
type RequestFlags int32

var requestFlagsMapping = common.NewFlagStringMapping[RequestFlags]()

func (f RequestFlags) Register(str string) {
	requestFlagsMapping.Register(f, str)
}
func (f RequestFlags) String() string {
	return requestFlagsMapping.FlagsToString(f)
}

const (
	// RequestToneMap asks for the layer to be tone mapped before composition
	RequestToneMap RequestFlags = 1 << iota
	// RequestSecure asks for the replacement buffer to be allocated from protected memory
	RequestSecure
)

func init() {
	BufferHDR.Register("BufferHDR")
	BufferSecure.Register("BufferSecure")
	BufferVideo.Register("BufferVideo")

	RequestToneMap.Register("RequestToneMap")
	RequestSecure.Register("RequestSecure")
}

// Buffer is a layer's input buffer descriptor. When a layer is tone mapped, the pool rewrites FD,
// Size, HandleID and AcquireFence so that the display composes the tone-mapped buffer instead.
// Handle still identifies the original content.
type Buffer struct {
	Handle   gralloc.Handle
	FD       int
	Size     int
	HandleID uint64
	Flags    BufferFlags

	ColorMetadata ColorMetadata

	// AcquireFence signals when the producer has finished writing the buffer
	AcquireFence fence.Fence
	// ReleaseFence is filled in by the display at commit and signals when it stops reading
	ReleaseFence fence.Fence
}

// Request is the shape the compositor wants the layer's buffer to have
type Request struct {
	Width  int
	Height int
	Format core1_0.Format
	Flags  RequestFlags
}

type Layer struct {
	Composition Composition
	InputBuffer Buffer
	Request     Request
	Lut3D       tonemap.Lut3D
}

// NeedsToneMap reports whether the compositor requested tone mapping for the layer
func (l *Layer) NeedsToneMap() bool {
	return l.Request.Flags&RequestToneMap != 0
}

// IsHDR reports whether the layer's input buffer carries HDR content
func (l *Layer) IsHDR() bool {
	return l.InputBuffer.Flags&BufferHDR != 0
}

// IsSecure reports whether the layer's replacement buffer must be protected
func (l *Layer) IsSecure() bool {
	return l.Request.Flags&RequestSecure != 0
}

// Stack is the ordered set of layers for one frame on one display
type Stack struct {
	Layers  []*Layer
	BlendCS PrimariesTransfer
}

// Layer returns the layer at index, or nil if index is out of range
func (s *Stack) Layer(index int) *Layer {
	if index < 0 || index >= len(s.Layers) {
		return nil
	}
	return s.Layers[index]
}
