package transfer

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpError(t *testing.T) {
	t.Run("kind and cause", func(t *testing.T) {
		require := require.New(t)
		err := opError(ErrSinkWrite, "write sink", io.ErrShortWrite)
		require.True(stderrors.Is(err, ErrSinkWrite))
		require.True(stderrors.Is(err, io.ErrShortWrite))
		require.False(stderrors.Is(err, ErrTransport))
		require.Equal("write sink: short write", err.Error())

		var oe *OpError
		require.True(stderrors.As(err, &oe))
		require.Equal("write sink", oe.Op)
	})

	t.Run("deadline becomes timeout", func(t *testing.T) {
		require := require.New(t)
		err := transportError("receive ack", os.ErrDeadlineExceeded)
		require.True(stderrors.Is(err, ErrTimeout))
		require.False(stderrors.Is(err, ErrTransport))

		err = transportError("receive ack", io.ErrClosedPipe)
		require.True(stderrors.Is(err, ErrTransport))
	})

	t.Run("stack trace", func(t *testing.T) {
		require := require.New(t)
		err := opError(ErrSourceRead, "read source", io.ErrUnexpectedEOF)
		require.Contains(fmt.Sprintf("%+v", err), "TestOpError")
	})
}
