package concurrency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/primkit/internal/concurrency"
)

func TestTimedMutexBasic(t *testing.T) {
	m := concurrency.NewTimedMutex()
	require.True(t, m.Lock(0))
	assert.False(t, m.Lock(0))
	m.Unlock()
	require.True(t, m.Lock(-1))
	m.Unlock()
}

func TestTimedMutexTimeout(t *testing.T) {
	m := concurrency.NewTimedMutex()
	require.True(t, m.Lock(0))

	start := time.Now()
	assert.False(t, m.Lock(30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	m.Unlock()
	assert.True(t, m.Lock(30*time.Millisecond))
	m.Unlock()
}

func TestTimedMutexHandsOffToBlockedAcquirer(t *testing.T) {
	m := concurrency.NewTimedMutex()
	require.True(t, m.Lock(0))

	acquired := make(chan struct{})
	go func() {
		if m.Lock(time.Second) {
			close(acquired)
			m.Unlock()
		}
	}()
	time.Sleep(20 * time.Millisecond)
	m.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("blocked acquirer never got the lock")
	}
}

func TestTimedMutexUnlockUnheldPanics(t *testing.T) {
	m := concurrency.NewTimedMutex()
	assert.Panics(t, func() { m.Unlock() })
}
