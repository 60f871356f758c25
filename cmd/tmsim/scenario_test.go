package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/tonemap/display"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc/heap"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tmpool"
	"github.com/vkngwrapper/tonemap/tonemap/noop"
	"golang.org/x/exp/slog"
)

func TestScenarioStacks(t *testing.T) {
	timeline := soft.New(nil, soft.Options{})
	sim := newSimulator(timeline, scenario{Layers: 2, Width: 64, Height: 32, Framebuffer: true, IdleEvery: 2, DropEvery: 3})

	busy := sim.stack(0)
	require.Len(t, busy.Layers, 4)
	require.Equal(t, layer.CompositionGPU, busy.Layers[2].Composition)
	require.Equal(t, layer.CompositionGPUTarget, busy.Layers[3].Composition)

	idle := sim.stack(1)
	require.Equal(t, layer.CompositionDevice, idle.Layers[2].Composition)

	dropped := sim.stack(2)
	require.Len(t, dropped.Layers, 3)
}

func TestSimulatedRun(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	timeline := soft.New(logger, soft.Options{WaitTimeout: time.Second})
	allocator, err := heap.New(logger, heap.CreateOptions{Fences: timeline})
	require.NoError(t, err)
	factory := noop.New(noop.Options{Timeline: timeline})

	sim := newSimulator(timeline, scenario{Layers: 2, Width: 64, Height: 32, Framebuffer: true, IdleEvery: 4, DropEvery: 5})
	pipeline, err := display.New(logger, allocator, factory, timeline, display.Options{
		Commit: sim.commit,
		Pool:   tmpool.CreateOptions{Flags: tmpool.CreateWorkerThread},
	})
	require.NoError(t, err)

	for frame := 0; frame < 40; frame++ {
		_, err := pipeline.Present(sim.stack(frame))
		require.NoError(t, err)
	}

	stats := pipeline.Pool().Stats()
	require.Equal(t, 40, stats.Frames)
	require.Equal(t, 10, stats.FastPathHits)
	require.Greater(t, stats.SessionsDestroyed, 0)
	require.NoError(t, pipeline.Pool().Validate())

	pipeline.Close()
	sim.flush()
	require.Equal(t, 0, factory.Live())
	require.Equal(t, 0, allocator.Statistics().BufferCount)
}
