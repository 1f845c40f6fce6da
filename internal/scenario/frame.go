// Package scenario models paused debuggee threads in memory. Scenarios are
// loaded from YAML and drive the render command of the CLI.
package scenario

import "github.com/saker-ai/debugwire/internal/stack"

// Frame is an in-memory stack frame.
type Frame struct {
	FrameID  uint64
	Func     string
	Filename string
	Lineno   int
	Caller   *Frame
	Locals   map[string]any
}

func (f *Frame) ID() uint64       { return f.FrameID }
func (f *Frame) FuncName() string { return f.Func }
func (f *Frame) File() string     { return f.Filename }
func (f *Frame) Line() int        { return f.Lineno }

func (f *Frame) Back() stack.Frame {
	if f.Caller == nil {
		return nil
	}
	return f.Caller
}

func (f *Frame) Local(name string) (any, bool) {
	v, ok := f.Locals[name]
	return v, ok
}

// SetLocal stores a local variable on the frame.
func (f *Frame) SetLocal(name string, v any) {
	if f.Locals == nil {
		f.Locals = make(map[string]any)
	}
	f.Locals[name] = v
}

// Chain links frames innermost first and returns the innermost frame.
func Chain(frames ...*Frame) *Frame {
	if len(frames) == 0 {
		return nil
	}
	for i := 0; i < len(frames)-1; i++ {
		frames[i].Caller = frames[i+1]
	}
	return frames[0]
}

// Link is an in-memory exception propagation entry.
type Link struct {
	At        *Frame
	Following *Link
}

func (l *Link) Frame() stack.Frame {
	if l.At == nil {
		return nil
	}
	return l.At
}

func (l *Link) Next() stack.TraceLink {
	if l.Following == nil {
		return nil
	}
	return l.Following
}

// Trace builds a propagation chain visiting frames in order, handler first
// and raise site last.
func Trace(frames ...*Frame) *Link {
	var head, tail *Link
	for _, f := range frames {
		l := &Link{At: f}
		if head == nil {
			head = l
		} else {
			tail.Following = l
		}
		tail = l
	}
	return head
}
