// Package fault holds the device error taxonomy.
//
// Every driver call site classifies its failure as one of these codes.
// Only WatchdogStall is fatal; the others are recovered within the tick.
package fault

import "errors"

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes.
const (
	OK                Code = "ok"
	SensorUnavailable Code = "sensor_unavailable"
	MessageTooLong    Code = "message_too_long"
	LinkDown          Code = "link_down"
	WatchdogStall     Code = "watchdog_stall"

	Error Code = "error" // generic fallback
)

// Fatal reports whether the code ends the supervisory loop.
func (c Code) Fatal() bool { return c == WatchdogStall }

// Register returns the numeric code published in the status register block.
// 0 means no error.
func (c Code) Register() uint16 {
	switch c {
	case OK:
		return 0
	case SensorUnavailable:
		return 10
	case MessageTooLong:
		return 20
	case LinkDown:
		return 30
	case WatchdogStall:
		return 90
	default:
		return 1
	}
}

// E keeps an operation and a cause next to a code.
type E struct {
	C   Code
	Op  string
	Err error
}

// Wrap returns nil when err is nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, fault.LinkDown) match a wrapped E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}

	// The outermost classification wins over any code in its cause chain.
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}

	var c Code
	if errors.As(err, &c) {
		return c
	}

	return Error
}
