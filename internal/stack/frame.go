// Package stack renders paused call stacks and resolves exception traces.
//
// Frames and traceback links are borrowed from the tracing engine. Nothing in
// this package keeps a reference to them once a call returns: a retained
// frame would pin the suspended thread's whole stack.
package stack

import (
	"path/filepath"
	"strings"
)

// Frame is one activation record of a live call stack.
type Frame interface {
	// ID identifies the frame among the frames alive at the time of the call.
	ID() uint64
	// FuncName is empty when the frame carries no code object.
	FuncName() string
	// File is the code filename as reported by the runtime.
	File() string
	Line() int
	// Back returns the caller frame, nil for the outermost one.
	Back() Frame
	// Local reads a local variable of the frame.
	Local(name string) (any, bool)
}

// TraceLink is one entry of an exception propagation chain, ordered from the
// handler towards the raise site.
type TraceLink interface {
	Frame() Frame
	Next() TraceLink
}

// FrameDescriptor is the client-facing view of one rendered frame.
type FrameDescriptor struct {
	ID   uint64
	Name string
	File string
	Line int
}

// Location holds the resolved forms of a code filename.
type Location struct {
	Abs  string
	Base string
}

// PathResolver maps code filenames to the form shown to the client.
type PathResolver interface {
	Resolve(file string) (Location, error)
	ToClient(abs string) string
}

// FileClassifier reports whether a file, by base name, belongs to the debugger.
type FileClassifier interface {
	IsInternal(base string) bool
}

// Decoder converts a path from the filesystem encoding to UTF-8.
type Decoder interface {
	Decode(path string) (string, error)
}

// Marker identifies the debugger frame that blocks a suspended thread.
type Marker struct {
	Func string
	File string
}

// DefaultMarker is the wait-for-resume frame of the debugger main module.
var DefaultMarker = Marker{Func: "do_wait_suspend", File: "pydevd.py"}

// Locals stored on the marker frame when a thread is suspended.
const (
	LocalThreadStack   = "thread_stack_str"
	LocalExceptionArgs = "arg"
)

// Matches reports whether f is the marker frame.
func (m Marker) Matches(f Frame) bool {
	if m.Func == "" {
		return false
	}
	return f.FuncName() == m.Func && strings.HasSuffix(f.File(), m.File)
}

type plainPaths struct{}

func (plainPaths) Resolve(file string) (Location, error) {
	return Location{Abs: file, Base: filepath.Base(file)}, nil
}

func (plainPaths) ToClient(abs string) string { return abs }

type noInternal struct{}

func (noInternal) IsInternal(string) bool { return false }
