package io

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

type shortWriter struct{}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (shortWriter) Write(b []byte) (int, error) {
	return len(b) / 2, nil
}

func TestReadChunk(t *testing.T) {
	t.Run("full chunks", func(t *testing.T) {
		require := require.New(t)
		// HalfReader never returns a full chunk in one read
		r := iotest.HalfReader(strings.NewReader("0123456789abcde"))
		buf := make([]byte, 10)

		n, err := ReadChunk(r, buf)
		require.Nil(err)
		require.Equal("0123456789", string(buf[:n]))

		n, err = ReadChunk(r, buf)
		require.Nil(err)
		require.Equal("abcde", string(buf[:n]))

		n, err = ReadChunk(r, buf)
		require.Nil(err)
		require.Equal(0, n)
	})

	t.Run("read error", func(t *testing.T) {
		require := require.New(t)
		expected := errors.New("disk on fire")
		_, err := ReadChunk(errReader{expected}, make([]byte, 4))
		require.Equal(expected, err)
	})
}

func TestWriteExact(t *testing.T) {
	require := require.New(t)
	buf := &bytes.Buffer{}
	require.Nil(WriteExact(buf, []byte("hello")))
	require.Equal("hello", buf.String())
	require.Equal(io.ErrShortWrite, WriteExact(shortWriter{}, []byte("hello")))
}
