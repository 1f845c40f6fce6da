package stack

type fakeFrame struct {
	id     uint64
	name   string
	file   string
	line   int
	back   *fakeFrame
	locals map[string]any
}

func (f *fakeFrame) ID() uint64       { return f.id }
func (f *fakeFrame) FuncName() string { return f.name }
func (f *fakeFrame) File() string     { return f.file }
func (f *fakeFrame) Line() int        { return f.line }

func (f *fakeFrame) Back() Frame {
	if f.back == nil {
		return nil
	}
	return f.back
}

func (f *fakeFrame) Local(name string) (any, bool) {
	v, ok := f.locals[name]
	return v, ok
}

// link chains frames innermost first and returns the innermost one.
func link(frames ...*fakeFrame) *fakeFrame {
	for i := 0; i < len(frames)-1; i++ {
		frames[i].back = frames[i+1]
	}
	return frames[0]
}

type fakeLink struct {
	frame *fakeFrame
	next  *fakeLink
}

func (l *fakeLink) Frame() Frame {
	if l.frame == nil {
		return nil
	}
	return l.frame
}

func (l *fakeLink) Next() TraceLink {
	if l.next == nil {
		return nil
	}
	return l.next
}

func traceOf(frames ...*fakeFrame) *fakeLink {
	var head, tail *fakeLink
	for _, f := range frames {
		l := &fakeLink{frame: f}
		if head == nil {
			head = l
		} else {
			tail.next = l
		}
		tail = l
	}
	return head
}

type internalSet map[string]bool

func (s internalSet) IsInternal(base string) bool { return s[base] }
