package io

import "io"

// ReadChunk fills buf from r. It only returns fewer than len(buf) bytes when
// r is exhausted, and returns 0 with a nil error once nothing is left.
func ReadChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

// WriteExact writes buf with a single call and treats a short write as an error.
func WriteExact(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}
