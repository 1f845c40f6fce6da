// Package skiplist classifies source files by base name. Frames running in
// debugger files are hidden from the stacks sent to the client.
package skiplist

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileType is the classification of a source file.
type FileType int

const (
	UserFile FileType = iota
	DebuggerFile
	LibraryFile
)

func (t FileType) String() string {
	switch t {
	case DebuggerFile:
		return "debugger"
	case LibraryFile:
		return "library"
	default:
		return "user"
	}
}

// UnmarshalYAML accepts the type names "debugger" and "library".
func (t *FileType) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debugger", "pydev":
		*t = DebuggerFile
	case "library", "lib":
		*t = LibraryFile
	case "user", "":
		*t = UserFile
	default:
		return fmt.Errorf("line %d: unknown file type %q", node.Line, raw)
	}
	return nil
}

var defaultFiles = map[string]FileType{
	"pydevd.py":                         DebuggerFile,
	"pydevd_additional_thread_info.py":  DebuggerFile,
	"pydevd_breakpoints.py":             DebuggerFile,
	"pydevd_comm.py":                    DebuggerFile,
	"pydevd_comm_constants.py":          DebuggerFile,
	"pydevd_constants.py":               DebuggerFile,
	"pydevd_custom_frames.py":           DebuggerFile,
	"pydevd_dont_trace_files.py":        DebuggerFile,
	"pydevd_file_utils.py":              DebuggerFile,
	"pydevd_frame.py":                   DebuggerFile,
	"pydevd_frame_utils.py":             DebuggerFile,
	"pydevd_io.py":                      DebuggerFile,
	"pydevd_net_command.py":             DebuggerFile,
	"pydevd_net_command_factory_xml.py": DebuggerFile,
	"pydevd_process_net_command.py":     DebuggerFile,
	"pydevd_resolver.py":                DebuggerFile,
	"pydevd_trace_dispatch.py":          DebuggerFile,
	"pydevd_utils.py":                   DebuggerFile,
	"pydevd_vars.py":                    DebuggerFile,
	"pydevd_xml.py":                     DebuggerFile,
	"_pydev_execfile.py":                DebuggerFile,
	"threading.py":                      LibraryFile,
	"queue.py":                          LibraryFile,
	"socket.py":                         LibraryFile,
}

// List maps base names to file types. It is read-only after construction.
type List struct {
	files map[string]FileType
}

// Default returns the built-in list of debugger and library files.
func Default() *List {
	return &List{files: maps.Clone(defaultFiles)}
}

// New returns a list holding exactly files.
func New(files map[string]FileType) *List {
	l := &List{files: make(map[string]FileType, len(files))}
	maps.Copy(l.files, files)
	return l
}

// With returns a copy of l with names added as debugger files.
func (l *List) With(names ...string) *List {
	out := New(l.files)
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out.files[name] = DebuggerFile
		}
	}
	return out
}

// Merge returns a copy of l overlaid with other.
func (l *List) Merge(other *List) *List {
	out := New(l.files)
	if other != nil {
		maps.Copy(out.files, other.files)
	}
	return out
}

// Type classifies base. Unlisted files are user files.
func (l *List) Type(base string) FileType {
	return l.files[base]
}

// IsInternal reports whether base is a debugger file.
func (l *List) IsInternal(base string) bool {
	return l.Type(base) == DebuggerFile
}

func (l *List) Len() int {
	return len(l.files)
}

type listFile struct {
	Files map[string]FileType `yaml:"files"`
}

// Parse reads a list from YAML of the form
//
//	files:
//	  my_hooks.py: debugger
//	  asyncio_patch.py: library
func Parse(data []byte) (*List, error) {
	var doc listFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse skip list: %w", err)
	}
	return New(doc.Files), nil
}

// Load reads a list file.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skip list: %w", err)
	}
	return Parse(data)
}
