package stack

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/saker-ai/debugwire/internal/escape"
)

// DefaultMaxFrames bounds a back-link walk over a malformed frame chain.
const DefaultMaxFrames = 10000

var (
	// ErrStackTooDeep is returned when a frame chain exceeds the walk bound.
	ErrStackTooDeep = errors.New("frame chain too deep")
	// ErrSnapshotConsumed is returned when a walk sequence is iterated twice.
	ErrSnapshotConsumed = errors.New("stack snapshot already consumed")
)

// RendererOptions configures a Renderer. Nil collaborators fall back to
// identity paths, no internal files and UTF-8 paths.
type RendererOptions struct {
	Paths      PathResolver
	Classifier FileClassifier
	Decoder    Decoder
	MaxFrames  int
	Logger     *zap.Logger
}

// Renderer produces stack snapshots. It holds no per-call state and is safe
// for concurrent use.
type Renderer struct {
	paths      PathResolver
	classifier FileClassifier
	decoder    Decoder
	maxFrames  int
	logger     *zap.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(opts RendererOptions) *Renderer {
	r := &Renderer{
		paths:      opts.Paths,
		classifier: opts.Classifier,
		decoder:    opts.Decoder,
		maxFrames:  opts.MaxFrames,
		logger:     opts.Logger,
	}
	if r.paths == nil {
		r.paths = plainPaths{}
	}
	if r.classifier == nil {
		r.classifier = noInternal{}
	}
	if r.maxFrames <= 0 {
		r.maxFrames = DefaultMaxFrames
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// MaxFrames returns the walk bound.
func (r *Renderer) MaxFrames() int {
	return r.maxFrames
}

// Walk returns the snapshot of the stack starting at top, innermost frame
// first. Debugger-internal frames are skipped. lineOverrides, keyed by frame
// ID, replaces the line the frame reports.
//
// The sequence is lazy and can be ranged over once; the frame reference is
// dropped as soon as iteration starts. A failure is yielded as the last
// element.
func (r *Renderer) Walk(top Frame, lineOverrides map[uint64]int) iter.Seq2[FrameDescriptor, error] {
	consumed := false
	return func(yield func(FrameDescriptor, error) bool) {
		if consumed {
			yield(FrameDescriptor{}, ErrSnapshotConsumed)
			return
		}
		consumed = true
		curr := top
		top = nil

		for depth := 0; curr != nil; curr = curr.Back() {
			depth++
			if depth > r.maxFrames {
				yield(FrameDescriptor{}, fmt.Errorf("%w: more than %d frames", ErrStackTooDeep, r.maxFrames))
				return
			}
			name := curr.FuncName()
			if name == "" {
				return
			}

			loc, err := r.paths.Resolve(curr.File())
			if err != nil {
				yield(FrameDescriptor{}, fmt.Errorf("resolve %s: %w", curr.File(), err))
				return
			}
			if r.classifier.IsInternal(loc.Base) {
				continue
			}

			file := r.paths.ToClient(loc.Abs)
			if r.decoder != nil {
				if file, err = r.decoder.Decode(file); err != nil {
					yield(FrameDescriptor{}, fmt.Errorf("decode %s: %w", loc.Abs, err))
					return
				}
			}

			id := curr.ID()
			line, ok := lineOverrides[id]
			if !ok {
				line = curr.Line()
			}
			if !yield(FrameDescriptor{ID: id, Name: name, File: file, Line: line}, nil) {
				return
			}
		}
	}
}

// Render renders the frame elements of the stack starting at top. A walk
// failure is logged and the frames rendered so far are returned.
func (r *Renderer) Render(top Frame, lineOverrides map[uint64]int) string {
	var b strings.Builder
	for fd, err := range r.Walk(top, lineOverrides) {
		if err != nil {
			r.logger.Error("render thread stack failed", zap.Error(err))
			break
		}
		WriteFrame(&b, fd)
	}
	return b.String()
}

// WriteFrame writes one frame element.
func WriteFrame(b *strings.Builder, fd FrameDescriptor) {
	b.WriteString(`<frame id="`)
	b.WriteString(strconv.FormatUint(fd.ID, 10))
	b.WriteString(`" name="`)
	b.WriteString(escape.XML(fd.Name))
	b.WriteString(`" file="`)
	b.WriteString(escape.FilePath(fd.File))
	b.WriteString(`" line="`)
	b.WriteString(strconv.Itoa(fd.Line))
	b.WriteString(`"></frame>`)
}
