package tmpool

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/bufutils"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc"
	mock_gralloc "github.com/vkngwrapper/tonemap/gralloc/mocks"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
	mock_tonemap "github.com/vkngwrapper/tonemap/tonemap/mocks"
	"go.uber.org/mock/gomock"
)

var testBufferConfig = gralloc.BufferConfig{
	Width:  30,
	Height: 16,
	Format: testFormat,
	Usage:  gralloc.UsageGPURender | gralloc.UsageGPUTexture,
}

func testBuffer(handle gralloc.Handle) gralloc.Buffer {
	return gralloc.Buffer{Handle: handle, FD: int(handle) + 10, Size: 4096, ID: uint64(handle) + 100}
}

func TestAllocationRollback(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)
	factory := mock_tonemap.NewMockFactory(ctrl)
	tm := mock_tonemap.NewMockTonemapper(ctrl)

	gomock.InOrder(
		factory.EXPECT().NewTonemapper(tonemap.DirectionForward, gomock.Any(), 2, gomock.Nil(), 0, false).Return(tm),
		allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(1), nil),
		allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(2), nil),
		allocator.EXPECT().Allocate(testBufferConfig).Return(gralloc.Buffer{}, errors.Wrap(gralloc.OutOfMemoryError, "heap exhausted")),
		allocator.EXPECT().Free(testBuffer(1)).Return(nil),
		allocator.EXPECT().Free(testBuffer(2)).Return(nil),
		tm.EXPECT().Destroy(),
	)

	pool, err := New(testLogger(), allocator, factory, soft.New(nil, soft.Options{}), CreateOptions{RingSize: 3})
	require.NoError(t, err)

	result, err := pool.HandleFrame(stackOf(toneMapLayer(layer.CompositionDevice, 1000)))
	require.True(t, errors.Is(err, ErrAllocation))
	require.True(t, errors.Is(err, gralloc.OutOfMemoryError))
	require.Equal(t, core1_0.VKErrorOutOfDeviceMemory, result)
	require.Empty(t, pool.Sessions())
	require.Equal(t, 0, pool.Stats().SessionsCreated)
}

func TestAllocationRollbackReportsFreeFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)

	gomock.InOrder(
		allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(1), nil),
		allocator.EXPECT().Allocate(testBufferConfig).Return(gralloc.Buffer{}, gralloc.OutOfMemoryError),
		allocator.EXPECT().Free(testBuffer(1)).Return(gralloc.UnknownHandleError),
	)

	ring, err := allocateRing(allocator, testBufferConfig, 2)
	require.Nil(t, ring)
	require.True(t, errors.Is(err, gralloc.OutOfMemoryError))
	require.Contains(t, err.Error(), "intermediate buffer 1 of 2")
}

func TestRingRotation(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)
	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(1), nil)
	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(2), nil)

	ring, err := allocateRing(allocator, testBufferConfig, 2)
	require.NoError(t, err)
	require.Equal(t, 2, ring.len())
	require.Equal(t, bufutils.Statistics{BufferCount: 2, BufferBytes: 8192}, ring.statistics())

	require.Equal(t, gralloc.Handle(1), ring.current().buffer.Handle)
	ring.advance()
	require.Equal(t, gralloc.Handle(2), ring.current().buffer.Handle)
	ring.advance()
	require.Equal(t, gralloc.Handle(1), ring.current().buffer.Handle)

	allocator.EXPECT().Free(testBuffer(1)).Return(nil)
	allocator.EXPECT().Free(testBuffer(2)).Return(errors.New("stale"))
	err = ring.free()
	require.Error(t, err)
	require.Contains(t, err.Error(), "intermediate buffer 1")
	require.Equal(t, 0, ring.len())
}

// The allocator may report dimensions that differ from the request, for instance after rounding.
// Compatibility is decided on what the allocator reports.
func TestIsCompatibleAsksAllocator(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)
	factory := mock_tonemap.NewMockFactory(ctrl)
	timeline := soft.New(nil, soft.Options{})

	first := mock_tonemap.NewMockTonemapper(ctrl)
	second := mock_tonemap.NewMockTonemapper(ctrl)
	first.EXPECT().Blit(gralloc.Handle(1), gralloc.Handle(1000), gomock.Any()).Return(-1, nil)
	second.EXPECT().Blit(gralloc.Handle(3), gralloc.Handle(1000), gomock.Any()).Return(-1, nil)
	factory.EXPECT().NewTonemapper(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(first)
	factory.EXPECT().NewTonemapper(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(second)

	for handle := gralloc.Handle(1); handle <= 4; handle++ {
		allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(handle), nil)
	}
	allocator.EXPECT().UnalignedWidth(gralloc.Handle(1)).Return(32, nil)

	pool, err := New(testLogger(), allocator, factory, timeline, CreateOptions{})
	require.NoError(t, err)

	l := toneMapLayer(layer.CompositionDevice, 1000)
	stack := stackOf(l)
	_, err = pool.HandleFrame(stack)
	require.NoError(t, err)
	require.Nil(t, l.InputBuffer.AcquireFence)
	pool.Reclaim(stack)

	allocator.EXPECT().Free(testBuffer(1)).Return(nil)
	allocator.EXPECT().Free(testBuffer(2)).Return(nil)
	first.EXPECT().Destroy()

	l = toneMapLayer(layer.CompositionDevice, 1000)
	stack = stackOf(l)
	_, err = pool.HandleFrame(stack)
	require.NoError(t, err)
	pool.Reclaim(stack)
	require.Len(t, pool.Sessions(), 1)

	allocator.EXPECT().Free(testBuffer(3)).Return(nil)
	allocator.EXPECT().Free(testBuffer(4)).Return(nil)
	second.EXPECT().Destroy()
	pool.Terminate()
}

func TestIsCompatibleQueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)
	tm := mock_tonemap.NewMockTonemapper(ctrl)

	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(1), nil)
	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(2), nil)

	l := toneMapLayer(layer.CompositionDevice, 1000)
	session := &Session{
		sessionDeps: sessionDeps{logger: testLogger(), allocator: allocator},
		config:      NewConfig(l, testBlendCS),
		tonemapper:  tm,
	}
	var err error
	session.ring, err = allocateRing(allocator, testBufferConfig, 2)
	require.NoError(t, err)

	allocator.EXPECT().UnalignedWidth(gralloc.Handle(1)).Return(30, nil)
	allocator.EXPECT().UnalignedHeight(gralloc.Handle(1)).Return(16, nil)
	require.True(t, session.IsCompatible(l, testBlendCS))

	allocator.EXPECT().UnalignedWidth(gralloc.Handle(1)).Return(0, gralloc.UnknownHandleError)
	require.False(t, session.IsCompatible(l, testBlendCS))

	// Height is not queried once the width differs
	allocator.EXPECT().UnalignedWidth(gralloc.Handle(1)).Return(31, nil)
	require.False(t, session.IsCompatible(l, testBlendCS))

	allocator.EXPECT().UnalignedWidth(gralloc.Handle(1)).Return(30, nil)
	allocator.EXPECT().UnalignedHeight(gralloc.Handle(1)).Return(0, gralloc.UnknownHandleError)
	require.False(t, session.IsCompatible(l, testBlendCS))

	// Cheap fields are compared before the allocator is asked
	require.False(t, session.IsCompatible(l, layer.PrimariesTransfer{Primaries: layer.PrimariesBT2020}))
}

func TestSessionDestroyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	allocator := mock_gralloc.NewMockAllocator(ctrl)
	factory := mock_tonemap.NewMockFactory(ctrl)
	tm := mock_tonemap.NewMockTonemapper(ctrl)

	factory.EXPECT().NewTonemapper(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tm)
	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(1), nil)
	allocator.EXPECT().Allocate(testBufferConfig).Return(testBuffer(2), nil)

	deps := sessionDeps{logger: testLogger(), allocator: allocator, factory: factory, fences: soft.New(nil, soft.Options{})}
	session, err := newSession(deps, toneMapLayer(layer.CompositionDevice, 1000), testBlendCS, 2, 0)
	require.NoError(t, err)
	require.Equal(t, -1, session.LayerIndex())

	gomock.InOrder(
		tm.EXPECT().Destroy(),
		allocator.EXPECT().Free(testBuffer(1)).Return(nil),
		allocator.EXPECT().Free(testBuffer(2)).Return(nil),
	)
	require.NoError(t, session.destroy())
	require.NoError(t, session.destroy())
}

func TestTaskCodeString(t *testing.T) {
	require.Equal(t, "TaskBlit", TaskBlit.String())
	require.Equal(t, "unknown TaskCode", TaskCode(42).String())
}
