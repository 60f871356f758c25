package layer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayerFlags(t *testing.T) {
	l := &Layer{
		InputBuffer: Buffer{Flags: BufferHDR | BufferVideo},
		Request:     Request{Flags: RequestToneMap},
	}

	require.True(t, l.NeedsToneMap())
	require.True(t, l.IsHDR())
	require.False(t, l.IsSecure())

	l.Request.Flags |= RequestSecure
	require.True(t, l.IsSecure())

	l.InputBuffer.Flags = 0
	require.False(t, l.IsHDR())
}

func TestStackLayer(t *testing.T) {
	first := &Layer{Composition: CompositionGPU}
	stack := &Stack{Layers: []*Layer{first}}

	require.Same(t, first, stack.Layer(0))
	require.Nil(t, stack.Layer(1))
	require.Nil(t, stack.Layer(-1))
}

func TestStrings(t *testing.T) {
	require.Equal(t, "CompositionGPUTarget", CompositionGPUTarget.String())
	require.Equal(t, "unknown Composition", Composition(99).String())
	require.Equal(t, "PrimariesBT2020/TransferSMPTE2084", PrimariesTransfer{PrimariesBT2020, TransferSMPTE2084}.String())
	require.Contains(t, (RequestToneMap | RequestSecure).String(), "RequestToneMap")
}
