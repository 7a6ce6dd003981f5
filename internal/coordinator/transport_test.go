package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNetworkSendRecvRoundTrip(t *testing.T) {
	net := NewChannelNetwork(3, 4)
	a, b := net.Endpoint(0), net.Endpoint(1)

	env := Envelope{Tag: TagBoundUpdate, Payload: EncodeBoundUpdate(BoundUpdate{NewBestLen: 12})}
	require.NoError(t, a.Send(context.Background(), 1, env))

	got, from, err := b.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, env, got)
}

func TestChannelNetworkRecvFromFiltersBySender(t *testing.T) {
	net := NewChannelNetwork(3, 4)
	a, c, target := net.Endpoint(0), net.Endpoint(2), net.Endpoint(1)

	env0 := Envelope{Tag: TagBoundUpdate, Payload: EncodeBoundUpdate(BoundUpdate{NewBestLen: 1})}
	env2 := Envelope{Tag: TagBoundUpdate, Payload: EncodeBoundUpdate(BoundUpdate{NewBestLen: 2})}
	require.NoError(t, a.Send(context.Background(), 1, env0))
	require.NoError(t, c.Send(context.Background(), 1, env2))

	got, err := target.RecvFrom(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, env2, got)

	// The message from rank 0 must have been re-queued, not dropped.
	got0, from, err := target.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, env0, got0)
}

func TestChannelNetworkTryRecvNonBlocking(t *testing.T) {
	net := NewChannelNetwork(2, 4)
	a, b := net.Endpoint(0), net.Endpoint(1)

	_, _, ok := b.TryRecv()
	assert.False(t, ok)

	require.NoError(t, a.Send(context.Background(), 1, Envelope{Tag: TagTerminate}))
	env, from, ok := b.TryRecv()
	require.True(t, ok)
	assert.Equal(t, 0, from)
	assert.Equal(t, TagTerminate, env.Tag)
}

func TestChannelNetworkSendRespectsContextCancellation(t *testing.T) {
	net := NewChannelNetwork(2, 1)
	a := net.Endpoint(0)

	require.NoError(t, a.Send(context.Background(), 1, Envelope{Tag: TagTerminate}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := a.Send(ctx, 1, Envelope{Tag: TagTerminate})
	assert.Error(t, err)
}

func TestChannelNetworkRankAndSize(t *testing.T) {
	net := NewChannelNetwork(5, 1)
	ep := net.Endpoint(3)
	assert.Equal(t, 3, ep.Rank())
	assert.Equal(t, 5, ep.Size())
}
