// Package netcmd builds the commands a debuggee sends to the debug client.
//
// Every builder runs through one combinator that turns a formatting failure,
// returned or panicked, into an error command: a builder never fails its
// caller. The Factory is immutable after New and safe for concurrent use by
// independently suspended threads.
package netcmd

import (
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/stack"
)

const (
	// DefaultMaxIOMessageSize is the console text bound, in characters.
	DefaultMaxIOMessageSize = 1000
	// DefaultIOTruncationMarker is appended to truncated console text.
	DefaultIOTruncationMarker = "..."
	// DefaultVersionString answers version requests.
	DefaultVersionString = "1.1"

	errorTraceLevel = 2
)

var (
	ErrUnsupportedKind = errors.New("kind does not carry a pass-through payload")
	ErrInvalidChannel  = errors.New("invalid console channel")
	ErrNoThreadSource  = errors.New("no thread source configured")

	errUnavailable = errors.New("unavailable")
)

// Thread describes a debuggee thread as reported by the thread source.
type Thread struct {
	ID    string
	Name  string
	Alive bool
}

// ThreadSource enumerates debuggee threads, debugger threads excluded.
type ThreadSource interface {
	Threads() ([]Thread, error)
}

// ThreadSourceFunc adapts a function to ThreadSource.
type ThreadSourceFunc func() ([]Thread, error)

// Threads calls fn.
func (fn ThreadSourceFunc) Threads() ([]Thread, error) { return fn() }

// Sink accepts finished commands for transmission.
type Sink interface {
	AddCommand(cmd protocol.Command)
}

// Options carries the collaborators of a Factory.
type Options struct {
	Threads  ThreadSource
	Renderer *stack.Renderer
	Marker   stack.Marker
	Logger   *zap.Logger

	// TraceLevel above 2 logs every error command.
	TraceLevel         int
	MaxIOMessageSize   int
	IOTruncationMarker string
	VersionString      string
	MaxTraceDepth      int
}

// Factory builds commands.
type Factory struct {
	threads       ThreadSource
	renderer      *stack.Renderer
	marker        stack.Marker
	logger        *zap.Logger
	traceLevel    int
	maxIOSize     int
	ioMarker      string
	version       string
	maxTraceDepth int
}

// New creates a factory, filling unset options with defaults.
func New(opts Options) *Factory {
	f := &Factory{
		threads:       opts.Threads,
		renderer:      opts.Renderer,
		marker:        opts.Marker,
		logger:        opts.Logger,
		traceLevel:    opts.TraceLevel,
		maxIOSize:     opts.MaxIOMessageSize,
		ioMarker:      opts.IOTruncationMarker,
		version:       opts.VersionString,
		maxTraceDepth: opts.MaxTraceDepth,
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if f.renderer == nil {
		f.renderer = stack.NewRenderer(stack.RendererOptions{Logger: f.logger})
	}
	if f.marker == (stack.Marker{}) {
		f.marker = stack.DefaultMarker
	}
	if f.maxIOSize <= 0 {
		f.maxIOSize = DefaultMaxIOMessageSize
	}
	if f.ioMarker == "" {
		f.ioMarker = DefaultIOTruncationMarker
	}
	if f.version == "" {
		f.version = DefaultVersionString
	}
	if f.maxTraceDepth <= 0 {
		f.maxTraceDepth = stack.DefaultMaxTraceDepth
	}
	return f
}

// Error builds an error command carrying diagnostic text. It cannot fail.
func (f *Factory) Error(seq int, text string) protocol.Command {
	if f.traceLevel > errorTraceLevel {
		f.logger.Error("debugger command failed", zap.Int("seq", seq), zap.String("text", text))
	}
	return protocol.New(protocol.KindError, seq, text)
}

// build runs msg and wraps any failure into an error command.
func (f *Factory) build(seq int, msg message) protocol.Command {
	cmd, _ := f.run(seq, msg)
	return cmd
}

// run is build that also reports an unavailable result as false.
func (f *Factory) run(seq int, msg message) (cmd protocol.Command, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			cmd = f.Error(seq, fmt.Sprintf("%s: panic: %v\n%s", msg.kind(), r, debug.Stack()))
			ok = true
		}
	}()

	cmd, err := msg.encode(f, seq)
	if errors.Is(err, errUnavailable) {
		return protocol.Command{}, false
	}
	if err != nil {
		return f.Error(seq, fmt.Sprintf("%s: %v", msg.kind(), err)), true
	}
	return cmd, true
}
