package stack

import (
	"errors"
	"fmt"
	"reflect"
)

// DefaultMaxTraceDepth bounds the walk over an exception propagation chain.
const DefaultMaxTraceDepth = 1000

var (
	ErrNoTrace      = errors.New("exception trace is empty")
	ErrTraceCycle   = errors.New("exception trace chain is cyclic")
	ErrTraceTooDeep = errors.New("exception trace chain too deep")
)

// ExceptionArgs is the exception state stored on the marker frame when a
// thread suspends on an exception.
type ExceptionArgs struct {
	Type        string
	Description string
	Trace       TraceLink
}

// ResolveRaiseFrame follows the chain to its last link and returns that
// link's frame, the frame where the exception was raised. The same frame may
// appear in consecutive links, as it does for a re-raise inside one function.
// A chain longer than maxDepth links is rejected, as is one revisiting a
// pointer link. Links of other types are bounded by maxDepth alone.
func ResolveRaiseFrame(link TraceLink, maxDepth int) (Frame, error) {
	if link == nil {
		return nil, ErrNoTrace
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTraceDepth
	}

	seen := make(map[TraceLink]struct{})
	for depth := 1; ; depth++ {
		if reflect.TypeOf(link).Kind() == reflect.Pointer {
			if _, dup := seen[link]; dup {
				return nil, fmt.Errorf("%w: link %d revisited", ErrTraceCycle, depth)
			}
			seen[link] = struct{}{}
		}

		frame := link.Frame()
		if frame == nil {
			return nil, fmt.Errorf("%w: link %d has no frame", ErrNoTrace, depth)
		}

		next := link.Next()
		if next == nil {
			return frame, nil
		}
		if depth >= maxDepth {
			return nil, fmt.Errorf("%w: more than %d links", ErrTraceTooDeep, maxDepth)
		}
		link = next
	}
}

// FindSuspendMarker walks the callers of top looking for the marker frame.
// The walk gives up after maxFrames frames.
func FindSuspendMarker(top Frame, marker Marker, maxFrames int) (Frame, bool) {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	depth := 0
	for f := top; f != nil && depth < maxFrames; f = f.Back() {
		depth++
		if marker.Matches(f) {
			return f, true
		}
	}
	return nil, false
}

// SuspendedStack returns the stack fragment cached on the marker frame when
// the thread was suspended.
func SuspendedStack(marker Frame) (string, bool) {
	v, ok := marker.Local(LocalThreadStack)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// SuspendedException returns the exception state stored on the marker frame.
// A missing or nil value means the suspension carries no exception.
func SuspendedException(marker Frame) (ExceptionArgs, bool, error) {
	v, ok := marker.Local(LocalExceptionArgs)
	if !ok || v == nil {
		return ExceptionArgs{}, false, nil
	}
	switch args := v.(type) {
	case ExceptionArgs:
		return args, true, nil
	case *ExceptionArgs:
		if args == nil {
			return ExceptionArgs{}, false, nil
		}
		return *args, true, nil
	default:
		return ExceptionArgs{}, false, fmt.Errorf("marker local %q has type %T", LocalExceptionArgs, v)
	}
}

// FindSuspendedException walks the callers of top for a marker frame holding
// exception state. Marker frames without exception state are passed over so
// an outer suspension can still be found.
func FindSuspendedException(top Frame, marker Marker, maxFrames int) (ExceptionArgs, bool, error) {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	depth := 0
	for f := top; f != nil && depth < maxFrames; f = f.Back() {
		depth++
		if !marker.Matches(f) {
			continue
		}
		args, ok, err := SuspendedException(f)
		if err != nil || ok {
			return args, ok, err
		}
	}
	return ExceptionArgs{}, false, nil
}
