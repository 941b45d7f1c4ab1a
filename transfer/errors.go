package transfer

import (
	uerrors "datagram-transfer/util/errors"

	"github.com/pkg/errors"
)

// Error kinds. Match with errors.Is.
var (
	ErrTransportSetup = errors.New("transport setup failed")
	ErrTransport      = errors.New("transport failed")
	ErrTimeout        = errors.New("timed out")
	ErrSourceOpen     = errors.New("cannot open source")
	ErrSourceRead     = errors.New("cannot read source")
	ErrSinkOpen       = errors.New("cannot open sink")
	ErrSinkWrite      = errors.New("cannot write sink")
	// Only reported through logs and Stats.Corrupted, never returned.
	ErrIntegrityMismatch = errors.New("checksum mismatch")
)

// OpError reports which operation of a transfer failed.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) Is(target error) bool {
	return e.Kind == target
}

func opError(kind error, op string, err error) error {
	return errors.WithStack(&OpError{Op: op, Kind: kind, Err: err})
}

func transportError(op string, err error) error {
	if uerrors.IsDeadlineError(err) {
		return opError(ErrTimeout, op, err)
	}
	return opError(ErrTransport, op, err)
}
