package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsDeadlineError(t *testing.T) {
	t.Run("sentinels", func(t *testing.T) {
		require := require.New(t)
		require.True(IsDeadlineError(ErrTimeout))
		require.True(IsDeadlineError(os.ErrDeadlineExceeded))
		require.True(IsDeadlineError(fmt.Errorf("read: %w", ErrTimeout)))
		require.False(IsDeadlineError(nil))
		require.False(IsDeadlineError(io.EOF))
		require.False(IsDeadlineError(errors.New("i/o failure")))
	})

	t.Run("udp read deadline", func(t *testing.T) {
		require := require.New(t)
		conn, err := net.ListenPacket("udp", "127.0.0.1:0")
		require.Nil(err)
		defer conn.Close()
		require.Nil(conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond)))
		_, _, err = conn.ReadFrom(make([]byte, 16))
		require.True(IsDeadlineError(err))
	})
}
