// Package errors provides the structured error type for the rawsock module.
//
// Errors are categorized by Op (the native call or codec step) and Kind
// (error category). Failed native calls carry Kind KindOS, the platform error
// code verbatim in Code, the portable Condition it classifies as, and the
// original syscall.Errno as Cause:
//
//	n, err := s.Recv(buf, 0)
//	if errors.IsCondition(err, errors.ConditionWouldBlock) {
//		// retry after poll.Select
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpBind, errors.KindOS).
//		Code(98).
//		Condition(errors.ConditionAddressInUse).
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As;
// the package re-exports Is, As and Join so one import is enough.
// Match categories with the Err* targets:
//
//	if errors.Is(err, errors.ErrClosed) { ... }
package errors
