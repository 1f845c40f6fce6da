// Package protocol defines the commands exchanged with the debug client.
package protocol

import (
	"strconv"
	"strings"
)

// Command is one debuggee-to-client message. Seq correlates a response with
// the client request; 0 marks an unsolicited command.
type Command struct {
	kind    Kind
	seq     int
	payload string

	stackFragment string
	suspendXML    string
}

// New executes the new function.
func New(kind Kind, seq int, payload string) Command {
	return Command{kind: kind, seq: seq, payload: payload}
}

// WithSuspendCache returns a copy of c carrying the rendered stack fragment
// and suspend composite, so later stack requests can reuse them verbatim.
func (c Command) WithSuspendCache(stackFragment string, suspendXML string) Command {
	c.stackFragment = stackFragment
	c.suspendXML = suspendXML
	return c
}

func (c Command) Kind() Kind      { return c.kind }
func (c Command) Seq() int        { return c.seq }
func (c Command) Payload() string { return c.payload }

// StackFragment returns the cached frame elements of a suspend command.
func (c Command) StackFragment() string { return c.stackFragment }

// SuspendXML returns the cached thread element of a suspend command.
func (c Command) SuspendXML() string { return c.suspendXML }

// IsError reports whether c is an error command.
func (c Command) IsError() bool { return c.kind == KindError }

// Line renders the command as a tab-separated text line.
func (c Command) Line() string {
	var b strings.Builder
	b.Grow(len(c.payload) + 16)
	b.WriteString(c.kind.Code())
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(c.seq))
	b.WriteByte('\t')
	b.WriteString(c.payload)
	b.WriteByte('\n')
	return b.String()
}
