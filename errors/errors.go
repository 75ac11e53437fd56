package errors

import (
	goerrors "errors"
	"fmt"
	"net"
	"strings"
)

// Op names the native call or codec step that failed
type Op string

const (
	OpStartup     Op = "startup"
	OpSocket      Op = "socket"
	OpBind        Op = "bind"
	OpListen      Op = "listen"
	OpConnect     Op = "connect"
	OpAccept      Op = "accept"
	OpRecv        Op = "recv"
	OpRecvFrom    Op = "recvfrom"
	OpSend        Op = "send"
	OpSendTo      Op = "sendto"
	OpGetSockName Op = "getsockname"
	OpGetSockOpt  Op = "getsockopt"
	OpSetSockOpt  Op = "setsockopt"
	OpIoctl       Op = "ioctl"
	OpShutdown    Op = "shutdown"
	OpClose       Op = "close"
	OpSelect      Op = "select"
	OpEncode      Op = "encode"
	OpDecode      Op = "decode"
	OpParse       Op = "parse"
	OpRegistry    Op = "registry"
)

// Kind categorizes the error
type Kind string

const (
	KindOS           Kind = "os"            // native call failed, Code holds the platform code
	KindInvalidInput Kind = "invalid_input" // address family or argument not understood
	KindClosed       Kind = "closed"        // socket already closed or released
	KindCapacity     Kind = "capacity"      // descriptor set limit exceeded
	KindOptionSize   Kind = "option_size"   // option value size differs from the native size
	KindBusy         Kind = "busy"          // registry entry has outstanding borrows
)

// Error is the structured error returned by every package in this module
type Error struct {
	Cause     error
	Op        Op
	Kind      Kind
	Detail    string
	Code      int
	Condition Condition
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Kind == KindOS {
		b.WriteString(": ")
		b.WriteString(e.Condition.String())
		b.WriteString(fmt.Sprintf(" (code %d)", e.Code))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target matches when its Kind is equal and its Op and Condition are
// either unset or equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	if t.Condition != ConditionUnknown && t.Condition != e.Condition {
		return false
	}
	return true
}

// Targets for errors.Is.
var (
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrClosed       = &Error{Kind: KindClosed}
	ErrCapacity     = &Error{Kind: KindCapacity}
	ErrOptionSize   = &Error{Kind: KindOptionSize}
	ErrBusy         = &Error{Kind: KindBusy}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Code sets the platform error code
func (b *Builder) Code(code int) *Builder {
	b.err.Code = code
	return b
}

// Condition sets the portable condition
func (b *Builder) Condition(c Condition) *Builder {
	b.err.Condition = c
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors

// OS creates an error for a failed native call.
// cause is normally the syscall.Errno reported by the platform.
func OS(op Op, code int, cond Condition, cause error) *Error {
	return &Error{
		Op:        op,
		Kind:      KindOS,
		Code:      code,
		Condition: cond,
		Cause:     cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// UnsupportedFamily creates the error returned when a native address
// carries a family other than IPv4 or IPv6.
func UnsupportedFamily(op Op, family int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("unsupported address family %d", family),
	}
}

// Closed creates the error returned for operations on a released socket.
// It wraps net.ErrClosed so callers using the standard library idiom still match.
func Closed(op Op) *Error {
	return &Error{
		Op:    op,
		Kind:  KindClosed,
		Cause: net.ErrClosed,
	}
}

// Capacity creates a descriptor set overflow error
func Capacity(op Op, n, limit int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("%d descriptors exceed set capacity %d", n, limit),
	}
}

// OptionSize creates an option size mismatch error
func OptionSize(op Op, option string, got, want int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOptionSize,
		Detail: fmt.Sprintf("option %s: native size %d, value size %d", option, got, want),
	}
}

// Busy creates an outstanding-borrow error
func Busy(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindBusy,
		Detail: detail,
	}
}

// Inspection helpers

// CodeOf returns the platform code carried by an OS error anywhere in err's chain.
func CodeOf(err error) (int, bool) {
	var e *Error
	if goerrors.As(err, &e) && e.Kind == KindOS {
		return e.Code, true
	}
	return 0, false
}

// ConditionOf returns the portable condition of err, or ConditionUnknown.
func ConditionOf(err error) Condition {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Condition
	}
	return ConditionUnknown
}

// IsCondition reports whether err classifies as c.
func IsCondition(err error, c Condition) bool {
	return err != nil && ConditionOf(err) == c
}

// IsWouldBlock reports whether err means a non-blocking call could not complete yet.
func IsWouldBlock(err error) bool {
	c := ConditionOf(err)
	return c == ConditionWouldBlock || c == ConditionInProgress
}

// Standard library passthroughs so callers need a single errors import.

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return goerrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return goerrors.As(err, target) }

// Join returns an error that wraps the given errors.
func Join(errs ...error) error { return goerrors.Join(errs...) }
