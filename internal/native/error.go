package native

import (
	"github.com/wippyai/rawsock/errors"
)

// OSError converts an error returned by this package into the portable
// OS error for op.
func OSError(op errors.Op, err error) error {
	errno, ok := Errno(err)
	if !ok {
		return errors.New(op, errors.KindOS).Cause(err).Build()
	}
	return errors.OS(op, int(errno), Classify(errno), errno)
}
