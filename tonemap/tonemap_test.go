package tonemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectionString(t *testing.T) {
	require.Equal(t, "DirectionForward", DirectionForward.String())
	require.Equal(t, "DirectionInverse", DirectionInverse.String())
	require.Equal(t, "unknown Direction", Direction(7).String())
}

func TestLutUsable(t *testing.T) {
	var lut Lut3D
	require.False(t, lut.Usable())

	lut.Entries = make([]Color10Bit, 8)
	require.False(t, lut.Usable())

	lut.Dim = 2
	require.True(t, lut.Usable())

	lut.Entries = nil
	require.False(t, lut.Usable())
}
