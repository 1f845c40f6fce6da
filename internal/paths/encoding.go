package paths

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Decoder converts file names from the filesystem encoding to UTF-8. A nil
// Decoder passes names through.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

// NewDecoder returns a decoder for the named filesystem encoding. An empty
// name or a UTF-8 encoding needs no conversion and yields nil.
func NewDecoder(name string) (*Decoder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("filesystem encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("filesystem encoding %q: %w", name, err)
	}
	if canonical == "utf-8" {
		return nil, nil
	}
	return &Decoder{name: canonical, enc: enc}, nil
}

// Name is the canonical encoding name.
func (d *Decoder) Name() string {
	if d == nil {
		return "utf-8"
	}
	return d.name
}

func (d *Decoder) Decode(path string) (string, error) {
	if d == nil {
		return path, nil
	}
	out, err := d.enc.NewDecoder().String(path)
	if err != nil {
		return "", fmt.Errorf("decode from %s: %w", d.name, err)
	}
	return out, nil
}
