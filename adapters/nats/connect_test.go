package nats

import (
	"fmt"
	"testing"

	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestReuseConnection(t *testing.T) {
	var connects, closes int
	connect := ReuseConnection(func() (*natsgo.Conn, closeFunc, error) {
		connects++
		return &natsgo.Conn{}, func() { closes++ }, nil
	})

	nc1, release1, err := connect()
	require.NoError(t, err)
	require.NotNil(t, nc1)

	nc2, release2, err := connect()
	require.NoError(t, err)

	// both leases share one underlying connection
	require.Same(t, nc1, nc2)
	require.Equal(t, 1, connects)

	// releasing one lease keeps the connection open
	release1()
	require.Equal(t, 0, closes)

	// releasing the last lease closes it
	release2()
	require.Equal(t, 1, closes)

	// the next lease dials fresh
	_, release3, err := connect()
	require.NoError(t, err)
	require.Equal(t, 2, connects)
	release3()
	require.Equal(t, 2, closes)
}

func TestReuseConnection_error(t *testing.T) {
	connect := ReuseConnection(func() (*natsgo.Conn, closeFunc, error) {
		return nil, nil, fmt.Errorf("dial failed")
	})

	_, _, err := connect()
	require.ErrorContains(t, err, "dial failed")
}
