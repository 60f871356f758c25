package tmpool

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
)

// Config is the fingerprint a session is created for. A session can only serve layers whose
// fingerprint is identical.
type Config struct {
	Direction tonemap.Direction
	BlendCS   layer.PrimariesTransfer
	// Transfer is the transfer function of the source content
	Transfer layer.Transfer
	Secure   bool
	Format   core1_0.Format
	// Width and Height are the unaligned dimensions of the intermediate buffers
	Width  int
	Height int
}

// DirectionOf returns DirectionForward for HDR input and DirectionInverse otherwise
func DirectionOf(l *layer.Layer) tonemap.Direction {
	if l.IsHDR() {
		return tonemap.DirectionForward
	}
	return tonemap.DirectionInverse
}

// NewConfig builds the fingerprint of a layer composed in blendCS
func NewConfig(l *layer.Layer, blendCS layer.PrimariesTransfer) Config {
	return Config{
		Direction: DirectionOf(l),
		BlendCS:   blendCS,
		Transfer:  l.InputBuffer.ColorMetadata.Transfer,
		Secure:    l.IsSecure(),
		Format:    l.Request.Format,
		Width:     l.Request.Width,
		Height:    l.Request.Height,
	}
}
