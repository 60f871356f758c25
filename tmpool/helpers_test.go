package tmpool

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/fence"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/gralloc/heap"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
	mock_tonemap "github.com/vkngwrapper/tonemap/tonemap/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

var testBlendCS = layer.PrimariesTransfer{Primaries: layer.PrimariesBT709, Transfer: layer.TransferSRGB}

const testFormat = core1_0.FormatA8B8G8R8UnsignedIntPacked

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testLut() tonemap.Lut3D {
	return tonemap.Lut3D{
		Entries: make([]tonemap.Color10Bit, 8),
		Dim:     2,
	}
}

func toneMapLayer(composition layer.Composition, src gralloc.Handle) *layer.Layer {
	return &layer.Layer{
		Composition: composition,
		InputBuffer: layer.Buffer{
			Handle: src,
			Flags:  layer.BufferHDR,
			ColorMetadata: layer.ColorMetadata{
				Primaries: layer.PrimariesBT2020,
				Transfer:  layer.TransferSMPTE2084,
			},
		},
		Request: layer.Request{
			Width:  30,
			Height: 16,
			Format: testFormat,
			Flags:  layer.RequestToneMap,
		},
		Lut3D: testLut(),
	}
}

func plainLayer(composition layer.Composition) *layer.Layer {
	return &layer.Layer{Composition: composition}
}

// blitRecord is one call to a mock tonemapper's Blit
type blitRecord struct {
	tonemapper int
	dst, src   gralloc.Handle
	waitName   string
}

// testEnv runs the pool against the heap allocator and a soft timeline, with gomock tonemappers
type testEnv struct {
	ctrl     *gomock.Controller
	timeline *soft.Timeline
	heap     *heap.Allocator
	factory  *mock_tonemap.MockFactory
	pool     *Pool

	mutex       sync.Mutex
	tonemappers []*mock_tonemap.MockTonemapper
	blits       []blitRecord
}

func newTestEnv(t *testing.T, options CreateOptions) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		ctrl:     ctrl,
		timeline: soft.New(testLogger(), soft.Options{SignalOnCreate: true}),
		factory:  mock_tonemap.NewMockFactory(ctrl),
	}

	var err error
	env.heap, err = heap.New(testLogger(), heap.CreateOptions{})
	require.NoError(t, err)

	env.pool, err = New(testLogger(), env.heap, env.factory, env.timeline, options)
	require.NoError(t, err)
	t.Cleanup(env.pool.Terminate)

	return env
}

// expectTonemappers lets the factory create any number of tonemappers, each of which must be
// destroyed exactly once
func (e *testEnv) expectTonemappers() {
	e.factory.EXPECT().NewTonemapper(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(direction tonemap.Direction, lut []tonemap.Color10Bit, lutDim int, gridEntries []tonemap.Color10Bit, gridSize int, secure bool) tonemap.Tonemapper {
			return e.newTonemapper()
		}).AnyTimes()
}

func (e *testEnv) newTonemapper() *mock_tonemap.MockTonemapper {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	index := len(e.tonemappers)
	tm := mock_tonemap.NewMockTonemapper(e.ctrl)
	tm.EXPECT().Blit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(dst, src gralloc.Handle, wait fence.Fence) (int, error) {
			record := blitRecord{tonemapper: index, dst: dst, src: src}
			if wait != nil {
				record.waitName = wait.Name()
			}
			e.mutex.Lock()
			e.blits = append(e.blits, record)
			e.mutex.Unlock()
			return e.timeline.NewPoint(), nil
		}).AnyTimes()
	tm.EXPECT().Destroy().Times(1)

	e.tonemappers = append(e.tonemappers, tm)
	return tm
}

func (e *testEnv) tonemapperCount() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.tonemappers)
}

func (e *testEnv) blitCount() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.blits)
}

func (e *testEnv) lastBlit() blitRecord {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.blits[len(e.blits)-1]
}

// frame runs HandleFrame and Reclaim for stack and requires the frame to succeed
func (e *testEnv) frame(t *testing.T, stack *layer.Stack) {
	result, err := e.pool.HandleFrame(stack)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, result)
	e.pool.Reclaim(stack)
	require.NoError(t, e.pool.Validate())
}

func (e *testEnv) session(t *testing.T, handle SessionHandle) *Session {
	session, ok := e.pool.Session(handle)
	require.True(t, ok)
	return session
}

func stackOf(layers ...*layer.Layer) *layer.Stack {
	return &layer.Stack{Layers: layers, BlendCS: testBlendCS}
}
