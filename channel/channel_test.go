package channel_test

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/primkit/api"
	"github.com/momentics/primkit/channel"
)

func msg8(vals ...uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], vals[0])
	if len(vals) > 1 {
		binary.LittleEndian.PutUint32(b[4:], vals[1])
	}
	return b
}

func TestNewRejectsBadSizes(t *testing.T) {
	_, err := channel.New(0, 8)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	_, err = channel.New(4, 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestSendRejectsWrongSize(t *testing.T) {
	ch, err := channel.New(2, 8)
	require.NoError(t, err)
	assert.ErrorIs(t, ch.Send([]byte{1, 2, 3}, api.NoWait), api.ErrInvalidArgument)
}

func TestFIFOOrder(t *testing.T) {
	ch, err := channel.New(10, 8)
	require.NoError(t, err)

	for i := uint32(1); i <= 10; i++ {
		require.NoError(t, ch.Send(msg8(i), api.NoWait))
	}
	assert.Equal(t, 10, ch.Len())

	for i := uint32(1); i <= 10; i++ {
		got, err := ch.Recv(api.NoWait)
		require.NoError(t, err)
		assert.Equal(t, i, binary.LittleEndian.Uint32(got))
	}
	assert.Equal(t, 0, ch.Len())
}

func TestRoundTripBitForBit(t *testing.T) {
	ch, err := channel.New(1, 16)
	require.NoError(t, err)

	sent := []byte{0x00, 0xFF, 0x55, 0xAA, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	require.NoError(t, ch.Send(sent, api.NoWait))

	// Mutating the caller's slice after Send must not affect the channel.
	sent[0] = 0x99

	got, err := ch.Recv(api.NoWait)
	require.NoError(t, err)
	want := []byte{0x00, 0xFF, 0x55, 0xAA, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	assert.Equal(t, want, got)
}

func TestBackpressureTimeout(t *testing.T) {
	ch, err := channel.New(2, 8)
	require.NoError(t, err)
	require.NoError(t, ch.Send(msg8(1), api.NoWait))
	require.NoError(t, ch.Send(msg8(2), api.NoWait))

	start := time.Now()
	err = ch.Send(msg8(3), 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, api.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)

	// The timed-out message was dropped, not delivered late.
	got, err := ch.Recv(api.NoWait)
	require.NoError(t, err)
	assert.EqualValues(t, 1, binary.LittleEndian.Uint32(got))
	got, err = ch.Recv(api.NoWait)
	require.NoError(t, err)
	assert.EqualValues(t, 2, binary.LittleEndian.Uint32(got))
	_, err = ch.Recv(api.NoWait)
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestBlockedSenderPromotedInOrder(t *testing.T) {
	ch, err := channel.New(1, 8)
	require.NoError(t, err)
	require.NoError(t, ch.Send(msg8(1), api.NoWait))

	var wg sync.WaitGroup
	for i := uint32(2); i <= 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ch.Send(msg8(i), time.Second))
		}()
		// Park senders one at a time so arrival order is deterministic.
		time.Sleep(20 * time.Millisecond)
	}

	for want := uint32(1); want <= 3; want++ {
		got, err := ch.Recv(time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, binary.LittleEndian.Uint32(got))
	}
	wg.Wait()
}

func TestReceiverWokenByHandoff(t *testing.T) {
	ch, err := channel.New(4, 8)
	require.NoError(t, err)

	got := make(chan []byte, 1)
	go func() {
		m, err := ch.Recv(time.Second)
		if err == nil {
			got <- m
		}
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, ch.Send(msg8(42), api.NoWait))

	select {
	case m := <-got:
		assert.EqualValues(t, 42, binary.LittleEndian.Uint32(m))
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken")
	}
}

func TestRecvTimeoutOnEmpty(t *testing.T) {
	ch, err := channel.New(2, 8)
	require.NoError(t, err)

	start := time.Now()
	_, err = ch.Recv(30 * time.Millisecond)
	assert.ErrorIs(t, err, api.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	s := ch.Stats()
	assert.EqualValues(t, 1, s.RecvTimeouts)
}

// Producer/consumer scenario: 3 producers x 50 messages over a
// capacity-10 channel into 2 consumers. Every message arrives exactly
// once and per-producer sequence numbers stay increasing.
func TestProducerConsumerScenario(t *testing.T) {
	const producers = 3
	const perProducer = 50
	const consumers = 2

	ch, err := channel.New(10, 8)
	require.NoError(t, err)

	var prodWG sync.WaitGroup
	for p := uint32(0); p < producers; p++ {
		p := p
		prodWG.Add(1)
		go func() {
			defer prodWG.Done()
			for seq := uint32(0); seq < perProducer; seq++ {
				assert.NoError(t, ch.Send(msg8(p, seq), 5*time.Second))
			}
		}()
	}

	var mu sync.Mutex
	seen := make(map[[2]uint32]bool)

	var consWG sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			// Each consumer's dequeues are a subsequence of the global
			// FIFO order, so its per-producer sequences must increase.
			lastSeq := map[uint32]int64{0: -1, 1: -1, 2: -1}
			for {
				m, err := ch.Recv(200 * time.Millisecond)
				if err != nil {
					return
				}
				p := binary.LittleEndian.Uint32(m[0:])
				seq := binary.LittleEndian.Uint32(m[4:])
				assert.Greater(t, int64(seq), lastSeq[p])
				lastSeq[p] = int64(seq)
				mu.Lock()
				assert.False(t, seen[[2]uint32{p, seq}], "duplicate delivery")
				seen[[2]uint32{p, seq}] = true
				mu.Unlock()
			}
		}()
	}

	prodWG.Wait()
	consWG.Wait()
	assert.Len(t, seen, producers*perProducer)

	s := ch.Stats()
	assert.EqualValues(t, producers*perProducer, s.TotalSent)
	assert.EqualValues(t, producers*perProducer, s.TotalRecvd)
}

func TestStatsSnapshot(t *testing.T) {
	ch, err := channel.New(4, 8)
	require.NoError(t, err)
	require.NoError(t, ch.Send(msg8(1), api.NoWait))
	require.NoError(t, ch.Send(msg8(2), api.NoWait))
	_, err = ch.Recv(api.NoWait)
	require.NoError(t, err)

	s := ch.Stats()
	assert.Equal(t, 1, s.Len)
	assert.Equal(t, 4, s.Cap)
	assert.Equal(t, 2, s.PeakLen)
	assert.EqualValues(t, 2, s.TotalSent)
	assert.EqualValues(t, 1, s.TotalRecvd)
}
