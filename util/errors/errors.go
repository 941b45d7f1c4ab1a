package errors

import (
	"errors"
	"net"
	"os"
)

var ErrTimeout = errors.New("timeout")

func IsDeadlineError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
