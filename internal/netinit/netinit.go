// Package netinit performs the process-wide socket subsystem startup.
package netinit

import (
	"sync"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
)

var (
	once    sync.Once
	initErr error

	// startup is replaced in tests to count invocations.
	startup = native.Startup
)

// Ensure runs the platform startup exactly once. Concurrent callers block
// until the first call completes and all observe its result. The subsystem is
// never torn down.
func Ensure() error {
	once.Do(func() {
		if e := startup(); e != nil {
			code := 0
			if errno, ok := native.Errno(e); ok {
				code = int(errno)
			}
			initErr = errors.New(errors.OpStartup, errors.KindOS).
				Code(code).
				Condition(errors.ConditionNotInitialized).
				Cause(e).
				Build()
		}
	})
	return initErr
}
