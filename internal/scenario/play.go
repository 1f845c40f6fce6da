package scenario

import (
	"fmt"
	"strconv"

	"github.com/saker-ai/debugwire/internal/netcmd"
	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/stack"
)

// Event types.
const (
	EventError              = "error"
	EventProtocolSet        = "protocol_set"
	EventThreadCreated      = "thread_created"
	EventCustomFrame        = "custom_frame_created"
	EventProcessCreated     = "process_created"
	EventCythonWarning      = "cython_warning"
	EventListThreads        = "list_threads"
	EventThreadStack        = "thread_stack"
	EventVariableChanged    = "variable_changed"
	EventIO                 = "io"
	EventVersion            = "version"
	EventThreadKilled       = "thread_killed"
	EventThreadSuspend      = "thread_suspend"
	EventSuspendSingle      = "suspend_single"
	EventResumeSingle       = "resume_single"
	EventThreadRun          = "thread_run"
	EventPayload            = "payload"
	EventExceptionTrace     = "exception_trace"
	EventExceptionDetails   = "exception_details"
	EventExceptionProceeded = "exception_proceeded"
	EventLoadSource         = "load_source"
	EventShowConsole        = "show_console"
	EventInputRequested     = "input_requested"
	EventNextStatement      = "next_statement"
	EventExit               = "exit"
)

// Player builds the commands of a scenario's events.
type Player struct {
	sc      *Scenario
	factory *netcmd.Factory
	marker  stack.Marker
	sink    netcmd.Sink
}

// NewPlayer creates a player sending every built command to sink.
func NewPlayer(sc *Scenario, factory *netcmd.Factory, marker stack.Marker, sink netcmd.Sink) *Player {
	return &Player{sc: sc, factory: factory, marker: marker, sink: sink}
}

type handler func(p *Player, ev Event) (protocol.Command, bool, error)

var handlers = map[string]handler{
	EventError: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.Error(ev.Seq, ev.Text), true, nil
	},
	EventProtocolSet: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.ProtocolSet(ev.Seq), true, nil
	},
	EventThreadCreated: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		if err := t.state.OnCreated(); err != nil {
			return protocol.Command{}, false, err
		}
		return p.factory.ThreadCreated(netcmd.Thread{ID: t.ID, Name: t.Name, Alive: t.Alive()}), true, nil
	},
	EventCustomFrame: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.CustomFrameCreated(ev.Thread, ev.Text), true, nil
	},
	EventProcessCreated: func(p *Player, _ Event) (protocol.Command, bool, error) {
		return p.factory.ProcessCreated(), true, nil
	},
	EventCythonWarning: func(p *Player, _ Event) (protocol.Command, bool, error) {
		return p.factory.ShowCythonWarning(), true, nil
	},
	EventListThreads: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.ListThreads(ev.Seq), true, nil
	},
	EventThreadStack: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		cmd, ok := p.factory.ThreadStack(ev.Seq, t.ID, topFrame(t), ev.MustBeSuspended)
		return cmd, ok, nil
	},
	EventVariableChanged: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.VariableChanged(ev.Seq, ev.Payload), true, nil
	},
	EventIO: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.IOMessage(ev.Text, netcmd.Channel(ev.Channel)), true, nil
	},
	EventVersion: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.Version(ev.Seq), true, nil
	},
	EventThreadKilled: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		t.state.OnKilled()
		return p.factory.ThreadKilled(t.ID), true, nil
	},
	EventThreadSuspend: (*Player).suspend,
	EventSuspendSingle: func(p *Player, ev Event) (protocol.Command, bool, error) {
		reason := ev.Reason
		if reason == 0 {
			if t, err := p.sc.Thread(ev.Thread); err == nil {
				if r, err := strconv.Atoi(t.StopReason()); err == nil {
					reason = r
				}
			}
		}
		return p.factory.ThreadSuspendSingle(ev.Thread, reason), true, nil
	},
	EventResumeSingle: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.ThreadResumeSingle(ev.Thread), true, nil
	},
	EventThreadRun: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		if err := t.state.OnResume(); err != nil {
			return protocol.Command{}, false, err
		}
		return p.factory.ThreadRun(t.ID, ev.Reason), true, nil
	},
	EventPayload: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.Payload(protocol.Kind(ev.Kind), ev.Seq, ev.Payload), true, nil
	},
	EventExceptionTrace: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		if t.Exception == nil {
			return protocol.Command{}, false, fmt.Errorf("thread %s has no exception", t.ID)
		}
		f, err := t.FrameAt(ev.Frame)
		if err != nil {
			return protocol.Command{}, false, err
		}
		exc := t.Exception
		frameID := strconv.FormatUint(f.FrameID, 10)
		return p.factory.ExceptionTrace(ev.Seq, t.ID, frameID, exc.Type, exc.Description, exc.Trace), true, nil
	},
	EventExceptionDetails: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		return p.factory.ExceptionDetails(ev.Seq, t.ID, topFrame(t)), true, nil
	},
	EventExceptionProceeded: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.ExceptionProceeded(ev.Thread), true, nil
	},
	EventLoadSource: func(p *Player, ev Event) (protocol.Command, bool, error) {
		// LoadSource queues on the sink itself.
		p.factory.LoadSource(ev.Seq, ev.Text, p.sink)
		return protocol.Command{}, false, nil
	},
	EventShowConsole: func(p *Player, ev Event) (protocol.Command, bool, error) {
		t, err := p.sc.Thread(ev.Thread)
		if err != nil {
			return protocol.Command{}, false, err
		}
		f, err := t.FrameAt(ev.Frame)
		if err != nil {
			return protocol.Command{}, false, err
		}
		return p.factory.ShowConsole(t.ID, f), true, nil
	},
	EventInputRequested: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.InputRequested(ev.Success), true, nil
	},
	EventNextStatement: func(p *Player, ev Event) (protocol.Command, bool, error) {
		return p.factory.SetNextStatementStatus(ev.Seq, ev.Success, ev.Text), true, nil
	},
	EventExit: func(p *Player, _ Event) (protocol.Command, bool, error) {
		return p.factory.Exit(), true, nil
	},
}

// Play builds every event in order. Events whose result is absent, such as
// a stack request for a running thread, produce no command.
func (p *Player) Play() error {
	for i, ev := range p.sc.Events {
		if err := p.Step(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return nil
}

// Step builds one event.
func (p *Player) Step(ev Event) error {
	h, ok := handlers[ev.Type]
	if !ok {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	cmd, ok, err := h(p, ev)
	if err != nil {
		return err
	}
	if ok {
		p.sink.AddCommand(cmd)
	}
	return nil
}

// suspend reports the thread suspended at the event frame and caches the
// rendered stack on the marker frame for later stack requests.
func (p *Player) suspend(ev Event) (protocol.Command, bool, error) {
	t, err := p.sc.Thread(ev.Thread)
	if err != nil {
		return protocol.Command{}, false, err
	}
	f, err := t.FrameAt(ev.Frame)
	if err != nil {
		return protocol.Command{}, false, err
	}
	switch ev.SuspendType {
	case "", netcmd.SuspendTrace, netcmd.SuspendFrame:
	default:
		return protocol.Command{}, false, fmt.Errorf("unknown suspend type %q", ev.SuspendType)
	}
	overrides := make(map[uint64]int, len(ev.LineOverrides))
	for idx, line := range ev.LineOverrides {
		of, err := t.FrameAt(idx)
		if err != nil {
			return protocol.Command{}, false, err
		}
		overrides[of.FrameID] = line
	}
	if err := t.state.OnSuspend(ev.StopReason); err != nil {
		return protocol.Command{}, false, err
	}

	cmd := p.factory.ThreadSuspend(t.ID, f, netcmd.SuspendOptions{
		StopReason:    ev.StopReason,
		Message:       ev.Message,
		SuspendType:   ev.SuspendType,
		LineOverrides: overrides,
	})
	if !cmd.IsError() {
		if m := t.MarkerFrame(p.marker); m != nil {
			m.SetLocal(stack.LocalThreadStack, cmd.StackFragment())
		}
	}
	return cmd, true, nil
}

func topFrame(t *Thread) stack.Frame {
	if top := t.Top(); top != nil {
		return top
	}
	return nil
}
