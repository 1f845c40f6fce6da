package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/saker-ai/debugwire/internal/netcmd"
	"github.com/saker-ai/debugwire/internal/stack"
	"github.com/saker-ai/debugwire/internal/threadstate"
)

// File is the YAML form of a scenario.
type File struct {
	Threads []ThreadSpec `yaml:"threads"`
	Events  []Event      `yaml:"events"`
}

// ThreadSpec describes one thread and its stack, innermost frame first.
type ThreadSpec struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Alive     *bool          `yaml:"alive"`
	State     string         `yaml:"state"`
	Frames    []FrameSpec    `yaml:"frames"`
	Exception *ExceptionSpec `yaml:"exception"`
}

// FrameSpec describes one frame.
type FrameSpec struct {
	Func string `yaml:"func"`
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// ExceptionSpec is the exception a suspended thread stopped on. Trace lists
// frame indexes from the handler to the raise site.
type ExceptionSpec struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Trace       []int  `yaml:"trace"`
}

// Event is one command the render command builds.
type Event struct {
	Type            string      `yaml:"type"`
	Seq             int         `yaml:"seq"`
	Thread          string      `yaml:"thread"`
	Frame           int         `yaml:"frame"`
	StopReason      string      `yaml:"stop_reason"`
	Message         *string     `yaml:"message"`
	SuspendType     string      `yaml:"suspend_type"`
	LineOverrides   map[int]int `yaml:"line_overrides"`
	MustBeSuspended bool        `yaml:"must_be_suspended"`
	Text            string      `yaml:"text"`
	Channel         int         `yaml:"channel"`
	Kind            int         `yaml:"kind"`
	Payload         string      `yaml:"payload"`
	Success         bool        `yaml:"success"`
	Reason          int         `yaml:"reason"`
}

// Thread is a loaded thread.
type Thread struct {
	ID        string
	Name      string
	Frames    []*Frame
	Exception *stack.ExceptionArgs

	state *threadstate.Machine
}

// Alive reports whether the thread has not been killed.
func (t *Thread) Alive() bool { return t.state.Alive() }

// State returns the lifecycle state of the thread.
func (t *Thread) State() threadstate.State { return t.state.State() }

// StopReason returns the reason of the thread's last suspension.
func (t *Thread) StopReason() string { return t.state.StopReason() }

// Top returns the innermost frame, nil for a thread without frames.
func (t *Thread) Top() *Frame {
	if len(t.Frames) == 0 {
		return nil
	}
	return t.Frames[0]
}

// FrameAt returns the frame at index i counted from the innermost frame.
func (t *Thread) FrameAt(i int) (*Frame, error) {
	if i < 0 || i >= len(t.Frames) {
		return nil, fmt.Errorf("thread %s: frame index %d out of range [0, %d)", t.ID, i, len(t.Frames))
	}
	return t.Frames[i], nil
}

// Scenario is a loaded scenario.
type Scenario struct {
	Threads []*Thread
	Events  []Event
	byID    map[string]*Thread
}

// Thread looks a thread up by id.
func (s *Scenario) Thread(id string) (*Thread, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown thread %q", id)
	}
	return t, nil
}

// ThreadSource exposes the scenario threads to a command factory.
func (s *Scenario) ThreadSource() netcmd.ThreadSource {
	return netcmd.ThreadSourceFunc(func() ([]netcmd.Thread, error) {
		threads := make([]netcmd.Thread, 0, len(s.Threads))
		for _, t := range s.Threads {
			threads = append(threads, netcmd.Thread{ID: t.ID, Name: t.Name, Alive: t.Alive()})
		}
		return threads, nil
	})
}

// Load reads a scenario file.
func Load(path string, marker stack.Marker) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data, marker)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse builds a scenario from YAML. Exception state is stored on the first
// marker frame of its thread, the way the debugger stores it on suspension.
func Parse(data []byte, marker stack.Marker) (*Scenario, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	sc := &Scenario{Events: file.Events, byID: make(map[string]*Thread)}
	var nextID uint64 = 1
	for i, ts := range file.Threads {
		state, err := newThreadState(ts)
		if err != nil {
			return nil, fmt.Errorf("thread %d: %w", i+1, err)
		}
		t := &Thread{ID: strings.TrimSpace(ts.ID), Name: ts.Name, state: state}
		if t.ID == "" {
			t.ID = newThreadID()
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("Thread-%d", i+1)
		}
		if _, dup := sc.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate thread id %q", t.ID)
		}

		for _, fs := range ts.Frames {
			t.Frames = append(t.Frames, &Frame{FrameID: nextID, Func: fs.Func, Filename: fs.File, Lineno: fs.Line})
			nextID++
		}
		Chain(t.Frames...)

		if ts.Exception != nil {
			args, err := buildException(t, *ts.Exception)
			if err != nil {
				return nil, err
			}
			t.Exception = &args
			if m := findMarker(t, marker); m != nil {
				m.SetLocal(stack.LocalExceptionArgs, args)
			}
		}

		sc.Threads = append(sc.Threads, t)
		sc.byID[t.ID] = t
	}
	return sc, nil
}

func newThreadState(ts ThreadSpec) (*threadstate.Machine, error) {
	switch {
	case ts.State != "":
		return threadstate.NewIn(threadstate.State(strings.ToLower(strings.TrimSpace(ts.State))))
	case ts.Alive != nil && !*ts.Alive:
		return threadstate.NewIn(threadstate.StateKilled)
	}
	m := threadstate.New()
	if err := m.OnCreated(); err != nil {
		return nil, err
	}
	return m, nil
}

// MarkerFrame returns the first marker frame of the thread.
func (t *Thread) MarkerFrame(marker stack.Marker) *Frame {
	return findMarker(t, marker)
}

func findMarker(t *Thread, marker stack.Marker) *Frame {
	for _, f := range t.Frames {
		if marker.Matches(f) {
			return f
		}
	}
	return nil
}

func buildException(t *Thread, es ExceptionSpec) (stack.ExceptionArgs, error) {
	if len(es.Trace) == 0 {
		return stack.ExceptionArgs{}, errors.New("thread " + t.ID + ": exception without trace")
	}
	frames := make([]*Frame, 0, len(es.Trace))
	for _, idx := range es.Trace {
		f, err := t.FrameAt(idx)
		if err != nil {
			return stack.ExceptionArgs{}, err
		}
		frames = append(frames, f)
	}
	return stack.ExceptionArgs{Type: es.Type, Description: es.Description, Trace: Trace(frames...)}, nil
}

func newThreadID() string {
	return fmt.Sprintf("pid_%d_id_%s", os.Getpid(), strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
