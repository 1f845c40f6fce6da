package netcmd

import (
	"fmt"
	"strings"

	"github.com/saker-ai/debugwire/internal/escape"
	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/stack"
)

const (
	unknownExceptionType = "exception: type unknown"
	unknownExceptionDesc = "exception: no description"
)

// suspendXML renders the suspend composite and the frame fragment inside it.
func (f *Factory) suspendXML(threadID string, top stack.Frame, opts SuspendOptions) (string, string) {
	fragment := f.renderer.Render(top, opts.LineOverrides)

	var b strings.Builder
	b.Grow(len(fragment) + 96)
	b.WriteString(`<xml><thread id="`)
	b.WriteString(escape.XML(threadID))
	b.WriteByte('"')
	if opts.StopReason != "" {
		b.WriteString(` stop_reason="`)
		b.WriteString(escape.XML(opts.StopReason))
		b.WriteByte('"')
	}
	if opts.Message != nil {
		b.WriteString(` message="`)
		b.WriteString(escape.XML(*opts.Message))
		b.WriteByte('"')
	}
	if opts.SuspendType != "" {
		b.WriteString(` suspend_type="`)
		b.WriteString(escape.XML(opts.SuspendType))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(fragment)
	b.WriteString("</thread></xml>")
	return b.String(), fragment
}

type exceptionReport struct {
	excType       string
	excDesc       string
	suspendXML    string
	stackFragment string
}

// exceptionTrace renders the exception labels and the stack rooted at the
// frame that raised.
func (f *Factory) exceptionTrace(threadID string, args stack.ExceptionArgs) (exceptionReport, error) {
	raised, err := stack.ResolveRaiseFrame(args.Trace, f.maxTraceDepth)
	if err != nil {
		return exceptionReport{}, fmt.Errorf("resolve exception trace: %w", err)
	}

	empty := ""
	composite, fragment := f.suspendXML(threadID, raised, SuspendOptions{
		StopReason:  protocol.KindSendCurrExceptionTrace.Code(),
		Message:     &empty,
		SuspendType: SuspendTrace,
	})
	return exceptionReport{
		excType:       exceptionLabel(args.Type, unknownExceptionType),
		excDesc:       exceptionLabel(args.Description, unknownExceptionDesc),
		suspendXML:    composite,
		stackFragment: fragment,
	}, nil
}

// exceptionLabel escapes an exception label for both the XML attribute and
// the tab-separated exception trace payload.
func exceptionLabel(label string, fallback string) string {
	label = strings.ReplaceAll(escape.XML(label), "\t", "  ")
	if label == "" {
		return fallback
	}
	return label
}
