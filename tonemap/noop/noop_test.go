package noop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/tonemap"
)

var testLut = []tonemap.Color10Bit{{R: 1}, {G: 1}}

func TestFactoryRefusals(t *testing.T) {
	factory := New(Options{RefuseSecure: true})

	require.Nil(t, factory.NewTonemapper(tonemap.DirectionForward, nil, 2, nil, 0, false))
	require.Nil(t, factory.NewTonemapper(tonemap.DirectionForward, testLut, 0, nil, 0, false))
	require.Nil(t, factory.NewTonemapper(tonemap.DirectionForward, testLut, 2, nil, 0, true))

	mapper := factory.NewTonemapper(tonemap.DirectionInverse, testLut, 2, nil, 0, false)
	require.NotNil(t, mapper)
	require.Equal(t, tonemap.DirectionInverse, mapper.(*Tonemapper).Direction())
	require.Equal(t, 1, factory.Live())
}

func TestBlitWithoutTimeline(t *testing.T) {
	factory := New(Options{})
	mapper := factory.NewTonemapper(tonemap.DirectionForward, testLut, 2, nil, 0, false)

	fd, err := mapper.Blit(1, 2, nil)
	require.NoError(t, err)
	require.Equal(t, -1, fd)
	require.Equal(t, 1, factory.Blits())

	_, err = mapper.Blit(0, 2, nil)
	require.Error(t, err)
}

func TestBlitWaitsForInput(t *testing.T) {
	timeline := soft.New(nil, soft.Options{WaitTimeout: 5 * time.Second})
	factory := New(Options{Timeline: timeline})
	mapper := factory.NewTonemapper(tonemap.DirectionForward, testLut, 2, nil, 0, false)

	inputFD := timeline.NewPoint()
	fd, err := mapper.Blit(1, 2, timeline.Create(inputFD, "acquire"))
	require.NoError(t, err)

	done := timeline.Create(fd, "tonemap")
	require.False(t, done.(*soft.Fence).Signaled())

	require.NoError(t, timeline.Signal(inputFD))
	require.NoError(t, timeline.Wait(done))
}

func TestDestroyOnce(t *testing.T) {
	factory := New(Options{})
	mapper := factory.NewTonemapper(tonemap.DirectionForward, testLut, 2, nil, 0, false)

	mapper.Destroy()
	mapper.Destroy()
	require.Equal(t, 0, factory.Live())
	require.Equal(t, 1, factory.Created())

	_, err := mapper.Blit(1, 2, nil)
	require.Error(t, err)
}
