package netcmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/saker-ai/debugwire/internal/escape"
	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/stack"
)

// message is one command variant. encode renders the finished command;
// errUnavailable marks a non-error absence.
type message interface {
	kind() protocol.Kind
	encode(f *Factory, seq int) (protocol.Command, error)
}

// Channel is the console stream of an io message.
type Channel int

const (
	Stdout Channel = 1
	Stderr Channel = 2
)

// Suspend types.
const (
	SuspendTrace = "trace"
	SuspendFrame = "frame"
)

// SuspendOptions shapes the thread element of a suspend composite. Empty
// StopReason and SuspendType, and a nil Message, omit the attribute.
type SuspendOptions struct {
	StopReason    string
	Message       *string
	SuspendType   string
	LineOverrides map[uint64]int
}

var passThroughKinds = map[protocol.Kind]bool{
	protocol.KindReturn:                    true,
	protocol.KindGetVariable:               true,
	protocol.KindGetArray:                  true,
	protocol.KindGetDescription:            true,
	protocol.KindGetFrame:                  true,
	protocol.KindEvaluateExpression:        true,
	protocol.KindGetCompletions:            true,
	protocol.KindGetFileContents:           true,
	protocol.KindGetBreakpointException:    true,
	protocol.KindEvaluateConsoleExpression: true,
	protocol.KindRunCustomOperation:        true,
	protocol.KindLoadFullValue:             true,
	protocol.KindGetNextStatementTargets:   true,
}

// textMessage carries a payload that needs no rendering.
type textMessage struct {
	k    protocol.Kind
	text string
}

func (m textMessage) kind() protocol.Kind { return m.k }

func (m textMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	return protocol.New(m.k, seq, m.text), nil
}

type passThroughMessage struct {
	k       protocol.Kind
	payload string
}

func (m passThroughMessage) kind() protocol.Kind { return m.k }

func (m passThroughMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	if !passThroughKinds[m.k] {
		return protocol.Command{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, m.k)
	}
	return protocol.New(m.k, seq, m.payload), nil
}

type threadCreatedMessage struct {
	thread Thread
}

func (threadCreatedMessage) kind() protocol.Kind { return protocol.KindThreadCreate }

func (m threadCreatedMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	return protocol.New(protocol.KindThreadCreate, seq, "<xml>"+threadXML(m.thread)+"</xml>"), nil
}

type customFrameMessage struct {
	frameID     string
	description string
}

func (customFrameMessage) kind() protocol.Kind { return protocol.KindThreadCreate }

func (m customFrameMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	payload := `<xml><thread name="` + escape.XML(m.description) + `" id="` + escape.XML(m.frameID) + `"/></xml>`
	return protocol.New(protocol.KindThreadCreate, seq, payload), nil
}

type listThreadsMessage struct{}

func (listThreadsMessage) kind() protocol.Kind { return protocol.KindReturn }

func (listThreadsMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	if f.threads == nil {
		return protocol.Command{}, ErrNoThreadSource
	}
	threads, err := f.threads.Threads()
	if err != nil {
		return protocol.Command{}, fmt.Errorf("list threads: %w", err)
	}
	var b strings.Builder
	b.WriteString("<xml>")
	for _, t := range threads {
		if t.Alive {
			b.WriteString(threadXML(t))
		}
	}
	b.WriteString("</xml>")
	return protocol.New(protocol.KindReturn, seq, b.String()), nil
}

type threadStackMessage struct {
	threadID        string
	top             stack.Frame
	mustBeSuspended bool
}

func (*threadStackMessage) kind() protocol.Kind { return protocol.KindGetThreadStack }

func (m *threadStackMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	top := m.top
	m.top = nil

	var b strings.Builder
	b.WriteString(`<xml><thread id="`)
	b.WriteString(escape.XML(m.threadID))
	b.WriteString(`">`)
	if top != nil {
		// Reuse what the client saw at suspension time: an exception may be
		// reported from a frame other than the one the thread is stopped in.
		var cached string
		if marker, ok := stack.FindSuspendMarker(top, f.marker, f.renderer.MaxFrames()); ok {
			cached, _ = stack.SuspendedStack(marker)
		} else if m.mustBeSuspended {
			return protocol.Command{}, errUnavailable
		}
		if cached == "" {
			cached = f.renderer.Render(top, nil)
		}
		b.WriteString(cached)
	}
	b.WriteString("</thread></xml>")
	return protocol.New(protocol.KindGetThreadStack, seq, b.String()), nil
}

type ioMessage struct {
	text    string
	channel Channel
}

func (ioMessage) kind() protocol.Kind { return protocol.KindWriteToConsole }

func (m ioMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	if m.channel != Stdout && m.channel != Stderr {
		return protocol.Command{}, fmt.Errorf("%w: %d", ErrInvalidChannel, m.channel)
	}
	text := truncate(m.text, f.maxIOSize, f.ioMarker)
	payload := `<xml><io s="` + escape.IOText(text) + `" ctx="` + strconv.Itoa(int(m.channel)) + `"/></xml>`
	return protocol.New(protocol.KindWriteToConsole, seq, payload), nil
}

// suspendMessage renders a suspend composite for the thread-suspend and
// show-console kinds.
type suspendMessage struct {
	k        protocol.Kind
	threadID string
	top      stack.Frame
	opts     SuspendOptions
}

func (m *suspendMessage) kind() protocol.Kind { return m.k }

func (m *suspendMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	top := m.top
	m.top = nil
	composite, fragment := f.suspendXML(m.threadID, top, m.opts)
	return protocol.New(m.k, seq, composite).WithSuspendCache(fragment, composite), nil
}

type singleNotificationMessage struct {
	k          protocol.Kind
	threadID   string
	stopReason *int
}

func (m singleNotificationMessage) kind() protocol.Kind { return m.k }

func (m singleNotificationMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	body := struct {
		ThreadID   string `json:"thread_id"`
		StopReason *int   `json:"stop_reason,omitempty"`
	}{ThreadID: m.threadID, StopReason: m.stopReason}
	data, err := json.Marshal(body)
	if err != nil {
		return protocol.Command{}, err
	}
	return protocol.New(m.k, seq, string(data)), nil
}

type exceptionTraceMessage struct {
	threadID string
	frameID  string
	args     stack.ExceptionArgs
}

func (*exceptionTraceMessage) kind() protocol.Kind { return protocol.KindSendCurrExceptionTrace }

func (m *exceptionTraceMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	args := m.args
	m.args = stack.ExceptionArgs{}
	exc, err := f.exceptionTrace(m.threadID, args)
	if err != nil {
		return protocol.Command{}, err
	}
	payload := m.frameID + "\t" + exc.excType + "\t" + exc.excDesc + "\t" + exc.suspendXML
	return protocol.New(protocol.KindSendCurrExceptionTrace, seq, payload), nil
}

type exceptionDetailsMessage struct {
	threadID string
	top      stack.Frame
}

func (*exceptionDetailsMessage) kind() protocol.Kind { return protocol.KindGetExceptionDetails }

func (m *exceptionDetailsMessage) encode(f *Factory, seq int) (protocol.Command, error) {
	top := m.top
	m.top = nil

	var b strings.Builder
	b.WriteString(`<xml><thread id="`)
	b.WriteString(escape.XML(m.threadID))
	b.WriteString(`" `)
	found := false
	if top != nil {
		args, ok, err := stack.FindSuspendedException(top, f.marker, f.renderer.MaxFrames())
		if err != nil {
			return protocol.Command{}, err
		}
		if ok {
			exc, err := f.exceptionTrace(m.threadID, args)
			if err != nil {
				return protocol.Command{}, err
			}
			b.WriteString(`exc_type="` + exc.excType + `" `)
			b.WriteString(`exc_desc="` + exc.excDesc + `" `)
			b.WriteString(">")
			b.WriteString(exc.stackFragment)
			found = true
		}
	}
	if !found {
		b.WriteString(">")
	}
	b.WriteString("</thread></xml>")
	return protocol.New(protocol.KindGetExceptionDetails, seq, b.String()), nil
}

type threadRunMessage struct {
	threadID string
	reason   int
}

func (threadRunMessage) kind() protocol.Kind { return protocol.KindThreadRun }

func (m threadRunMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	return protocol.New(protocol.KindThreadRun, seq, m.threadID+"\t"+strconv.Itoa(m.reason)), nil
}

type nextStatementMessage struct {
	success bool
	message string
}

func (nextStatementMessage) kind() protocol.Kind { return protocol.KindSetNextStatement }

func (m nextStatementMessage) encode(_ *Factory, seq int) (protocol.Command, error) {
	return protocol.New(protocol.KindSetNextStatement, seq, pyBool(m.success)+"\t"+m.message), nil
}

func threadXML(t Thread) string {
	return `<thread name="` + escape.ThreadName(t.Name) + `" id="` + escape.XML(t.ID) + `" />`
}

// truncate cuts text to limit characters and appends marker when it does.
func truncate(text string, limit int, marker string) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i] + marker
		}
		n++
	}
	return text
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
