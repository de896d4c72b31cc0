package channel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/primkit/api"
	"github.com/momentics/primkit/channel"
)

func TestPostAfterDelivers(t *testing.T) {
	ch, err := channel.New(2, 4)
	require.NoError(t, err)

	p := channel.PostAfter(ch, []byte{1, 2, 3, 4}, 30*time.Millisecond, time.Second)

	start := time.Now()
	got, err := ch.Recv(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	fired, postErr := p.Done()
	assert.True(t, fired)
	assert.NoError(t, postErr)
}

func TestPostAtPastDeadlinePostsImmediately(t *testing.T) {
	ch, err := channel.New(1, 4)
	require.NoError(t, err)

	channel.PostAt(ch, []byte{9, 9, 9, 9}, time.Now().Add(-time.Second), time.Second)
	got, err := ch.Recv(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9}, got)
}

func TestPostStopCancels(t *testing.T) {
	ch, err := channel.New(1, 4)
	require.NoError(t, err)

	p := channel.PostAfter(ch, []byte{1, 1, 1, 1}, 200*time.Millisecond, time.Second)
	assert.True(t, p.Stop())

	_, err = ch.Recv(50 * time.Millisecond)
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestPostAgainstFullChannelRecordsTimeout(t *testing.T) {
	ch, err := channel.New(1, 4)
	require.NoError(t, err)
	require.NoError(t, ch.Send([]byte{0, 0, 0, 0}, api.NoWait))

	p := channel.PostAfter(ch, []byte{1, 1, 1, 1}, 10*time.Millisecond, 30*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	fired, postErr := p.Done()
	assert.True(t, fired)
	assert.ErrorIs(t, postErr, api.ErrTimeout)
}
