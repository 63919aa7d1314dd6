package executor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecutor(t *testing.T) {
	e := New(zap.NewNop())
	defer e.Shutdown()

	t.Run("tasks run serialized in dispatch order", func(t *testing.T) {
		var mtx sync.Mutex
		out := []int{}
		var wg sync.WaitGroup
		wg.Add(100)
		for i := 0; i < 100; i++ {
			idx := i
			e.Dispatch("test.append", func() {
				defer wg.Done()
				mtx.Lock()
				out = append(out, idx)
				mtx.Unlock()
			})
		}
		wg.Wait()
		require.Equal(t, 100, len(out))
		for i := 0; i < 100; i++ {
			assert.Equal(t, i, out[i])
		}
	})

	t.Run("call waits for completion", func(t *testing.T) {
		ran := false
		e.Call("test.call", func() {
			ran = true
		})
		assert.True(t, ran)
	})

	t.Run("scheduled tasks run on the loop", func(t *testing.T) {
		fired := make(chan struct{})
		e.ScheduleAfter(time.Millisecond, "test.timer", func() {
			close(fired)
		})
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timer never fired")
		}
	})

	t.Run("stopped timers do not fire", func(t *testing.T) {
		timer := e.ScheduleAfter(50*time.Millisecond, "test.timer", func() {
			t.Error("cancelled timer fired")
		})
		timer.Stop()
		time.Sleep(100 * time.Millisecond)
	})
}

func TestExecutorShutdown(t *testing.T) {
	e := New(zap.NewNop())
	ran := false
	e.Dispatch("test.final", func() {
		ran = true
	})
	e.Shutdown()
	assert.True(t, ran)

	// dispatch after shutdown is dropped, not queued
	e.Dispatch("test.late", func() {
		t.Error("task ran after shutdown")
	})
	time.Sleep(20 * time.Millisecond)
}
