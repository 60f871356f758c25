package dispatch

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type testCode int

const (
	codeRecord testCode = iota
	codeDouble
)

type recordingHandler struct {
	codes   []testCode
	active  int
	maxSeen int
	mutex   sync.Mutex
}

func (h *recordingHandler) OnTask(code testCode, taskContext any) {
	h.mutex.Lock()
	h.active++
	if h.active > h.maxSeen {
		h.maxSeen = h.active
	}
	h.codes = append(h.codes, code)
	h.mutex.Unlock()

	if code == codeDouble {
		value := taskContext.(*int)
		*value *= 2
	}

	h.mutex.Lock()
	h.active--
	h.mutex.Unlock()
}

func TestInlinePerformTask(t *testing.T) {
	handler := &recordingHandler{}
	task := New[testCode](nil, handler, 0)

	value := 21
	require.NoError(t, task.PerformTask(codeDouble, &value))
	require.Equal(t, 42, value)

	require.NoError(t, task.PerformTask(codeRecord, nil))
	require.Equal(t, []testCode{codeDouble, codeRecord}, handler.codes)

	task.Close()
	task.Close()

	err := task.PerformTask(codeRecord, nil)
	require.True(t, errors.Is(err, ClosedError))
	require.Len(t, handler.codes, 2)
}

func TestWorkerPerformTaskIsRoundTrip(t *testing.T) {
	handler := &recordingHandler{}
	task := New[testCode](nil, handler, CreateWorkerThread)
	defer task.Close()

	for i := 0; i < 10; i++ {
		value := i
		require.NoError(t, task.PerformTask(codeDouble, &value))
		// The handler has already written the result when PerformTask returns
		require.Equal(t, i*2, value)
	}
}

func TestWorkerSerializesCallers(t *testing.T) {
	handler := &recordingHandler{}
	task := New[testCode](nil, handler, CreateWorkerThread)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = task.PerformTask(codeRecord, nil)
			}
		}()
	}
	wg.Wait()
	task.Close()

	require.Len(t, handler.codes, 160)
	require.Equal(t, 1, handler.maxSeen)

	err := task.PerformTask(codeRecord, nil)
	require.True(t, errors.Is(err, ClosedError))
}

func TestFlagsString(t *testing.T) {
	require.Contains(t, (CreateWorkerThread | CreateExternallySynchronized).String(), "CreateWorkerThread")
}
