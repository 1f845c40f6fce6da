package netcmd

import (
	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/stack"
)

// ProtocolSet acknowledges a protocol selection request.
func (f *Factory) ProtocolSet(seq int) protocol.Command {
	return f.build(seq, textMessage{k: protocol.KindSetProtocol})
}

// ThreadCreated announces a new debuggee thread.
func (f *Factory) ThreadCreated(t Thread) protocol.Command {
	return f.build(0, threadCreatedMessage{thread: t})
}

// CustomFrameCreated announces a synthetic frame shown to the client as a
// thread.
func (f *Factory) CustomFrameCreated(frameID string, description string) protocol.Command {
	return f.build(0, customFrameMessage{frameID: frameID, description: description})
}

func (f *Factory) ProcessCreated() protocol.Command {
	return f.build(0, textMessage{k: protocol.KindProcessCreated, text: "<process/>"})
}

func (f *Factory) ShowCythonWarning() protocol.Command {
	return f.build(0, textMessage{k: protocol.KindShowCythonWarning})
}

// ListThreads lists the live threads of the thread source. No threads is a
// valid, empty listing.
func (f *Factory) ListThreads(seq int) protocol.Command {
	return f.build(seq, listThreadsMessage{})
}

// ThreadStack renders the stack of a thread. When the thread is stopped in
// the debugger, the stack cached at suspension time is returned verbatim.
// If it is not stopped and mustBeSuspended is set, ok is false.
func (f *Factory) ThreadStack(seq int, threadID string, top stack.Frame, mustBeSuspended bool) (protocol.Command, bool) {
	return f.run(seq, &threadStackMessage{threadID: threadID, top: top, mustBeSuspended: mustBeSuspended})
}

// VariableChanged acknowledges a successful variable change.
func (f *Factory) VariableChanged(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindReturn, seq, payload)
}

// IOMessage forwards console output, truncated to the configured bound.
func (f *Factory) IOMessage(text string, channel Channel) protocol.Command {
	return f.build(0, ioMessage{text: text, channel: channel})
}

func (f *Factory) Version(seq int) protocol.Command {
	return f.build(seq, textMessage{k: protocol.KindVersion, text: f.version})
}

func (f *Factory) ThreadKilled(threadID string) protocol.Command {
	return f.build(0, textMessage{k: protocol.KindThreadKill, text: threadID})
}

// ThreadSuspend reports a suspended thread. The returned command caches the
// rendered frame fragment and composite for later stack and exception
// requests.
func (f *Factory) ThreadSuspend(threadID string, top stack.Frame, opts SuspendOptions) protocol.Command {
	return f.build(0, &suspendMessage{k: protocol.KindThreadSuspend, threadID: threadID, top: top, opts: opts})
}

// ThreadSuspendSingle is the JSON notification sent when one thread
// suspends.
func (f *Factory) ThreadSuspendSingle(threadID string, stopReason int) protocol.Command {
	return f.build(0, singleNotificationMessage{
		k:          protocol.KindThreadSuspendSingleNotification,
		threadID:   threadID,
		stopReason: &stopReason,
	})
}

// ThreadResumeSingle is the JSON notification sent when one thread resumes.
func (f *Factory) ThreadResumeSingle(threadID string) protocol.Command {
	return f.build(0, singleNotificationMessage{k: protocol.KindThreadResumeSingleNotification, threadID: threadID})
}

// ThreadRun reports a resumed thread and the command that resumed it.
func (f *Factory) ThreadRun(threadID string, reason int) protocol.Command {
	return f.build(0, threadRunMessage{threadID: threadID, reason: reason})
}

// Payload wraps a payload already serialized by the evaluation subsystem.
// Only kinds answering such requests are accepted.
func (f *Factory) Payload(kind protocol.Kind, seq int, payload string) protocol.Command {
	return f.build(seq, passThroughMessage{k: kind, payload: payload})
}

func (f *Factory) GetVariable(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetVariable, seq, payload)
}

func (f *Factory) GetArray(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetArray, seq, payload)
}

func (f *Factory) GetDescription(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetDescription, seq, payload)
}

func (f *Factory) GetFrame(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetFrame, seq, payload)
}

func (f *Factory) EvaluateExpression(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindEvaluateExpression, seq, payload)
}

func (f *Factory) GetCompletions(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetCompletions, seq, payload)
}

func (f *Factory) GetFileContents(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetFileContents, seq, payload)
}

func (f *Factory) BreakpointException(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetBreakpointException, seq, payload)
}

func (f *Factory) ConsoleMessage(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindEvaluateConsoleExpression, seq, payload)
}

func (f *Factory) CustomOperation(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindRunCustomOperation, seq, payload)
}

func (f *Factory) LoadFullValue(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindLoadFullValue, seq, payload)
}

func (f *Factory) NextStatementTargets(seq int, payload string) protocol.Command {
	return f.Payload(protocol.KindGetNextStatementTargets, seq, payload)
}

// ExceptionTrace reports the exception a thread stopped on, with the stack
// rooted at the frame that raised it.
func (f *Factory) ExceptionTrace(seq int, threadID string, frameID string, excType string, excDesc string, trace stack.TraceLink) protocol.Command {
	return f.build(seq, &exceptionTraceMessage{
		threadID: threadID,
		frameID:  frameID,
		args:     stack.ExceptionArgs{Type: excType, Description: excDesc, Trace: trace},
	})
}

// ExceptionDetails describes the exception stored at the thread's suspension
// point. Without one, the thread element carries no exception attributes.
func (f *Factory) ExceptionDetails(seq int, threadID string, top stack.Frame) protocol.Command {
	return f.build(seq, &exceptionDetailsMessage{threadID: threadID, top: top})
}

func (f *Factory) ExceptionProceeded(threadID string) protocol.Command {
	return f.build(0, textMessage{k: protocol.KindSendCurrExceptionTraceProceeded, text: threadID})
}

// LoadSource answers a source request and, when sink is set, queues the
// command on it.
func (f *Factory) LoadSource(seq int, source string, sink Sink) protocol.Command {
	cmd := f.build(seq, textMessage{k: protocol.KindLoadSource, text: source})
	if sink != nil {
		sink.AddCommand(cmd)
	}
	return cmd
}

// ShowConsole asks the client to show the console for a suspended thread.
func (f *Factory) ShowConsole(threadID string, top stack.Frame) protocol.Command {
	empty := ""
	return f.build(0, &suspendMessage{
		k:        protocol.KindShowConsole,
		threadID: threadID,
		top:      top,
		opts: SuspendOptions{
			StopReason:  protocol.KindShowConsole.Code(),
			Message:     &empty,
			SuspendType: SuspendTrace,
		},
	})
}

func (f *Factory) InputRequested(started bool) protocol.Command {
	return f.build(0, textMessage{k: protocol.KindInputRequested, text: pyBool(started)})
}

// SetNextStatementStatus reports the outcome of a set-next-statement request.
func (f *Factory) SetNextStatementStatus(seq int, success bool, message string) protocol.Command {
	return f.build(seq, nextStatementMessage{success: success, message: message})
}

func (f *Factory) Exit() protocol.Command {
	return f.build(0, textMessage{k: protocol.KindExit})
}
