// Package paths maps debuggee file names to the names the client knows them
// by.
package paths

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/saker-ai/debugwire/internal/stack"
)

// Mapping translates a server path prefix into a client path prefix.
type Mapping struct {
	Server string `mapstructure:"server" yaml:"server"`
	Client string `mapstructure:"client" yaml:"client"`
}

// Mapper resolves frame file names and applies prefix mappings. Resolved
// locations are cached; a Mapper is safe for concurrent use.
type Mapper struct {
	mappings []Mapping
	cache    sync.Map
}

// NewMapper creates a mapper. The longest matching server prefix wins.
func NewMapper(mappings []Mapping) *Mapper {
	m := &Mapper{}
	for _, mp := range mappings {
		server := strings.TrimSpace(mp.Server)
		if server == "" {
			continue
		}
		m.mappings = append(m.mappings, Mapping{
			Server: strings.TrimRight(filepath.Clean(server), string(filepath.Separator)),
			Client: strings.TrimSpace(mp.Client),
		})
	}
	sort.SliceStable(m.mappings, func(i, j int) bool {
		return len(m.mappings[i].Server) > len(m.mappings[j].Server)
	})
	return m
}

// Resolve returns the absolute path and the base name of file. Symlinks are
// kept so the client sees the path the code was loaded from.
func (m *Mapper) Resolve(file string) (stack.Location, error) {
	if v, ok := m.cache.Load(file); ok {
		return v.(stack.Location), nil
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return stack.Location{}, fmt.Errorf("absolute path: %w", err)
	}
	loc := stack.Location{Abs: abs, Base: filepath.Base(file)}
	m.cache.Store(file, loc)
	return loc, nil
}

// ToClient rewrites abs with the first matching mapping. Separators follow
// the client prefix when it is a Windows path.
func (m *Mapper) ToClient(abs string) string {
	for _, mp := range m.mappings {
		rest, ok := cutPrefix(abs, mp.Server)
		if !ok {
			continue
		}
		client := strings.TrimRight(mp.Client, `/\`)
		sep := "/"
		if strings.Contains(client, `\`) && !strings.Contains(client, "/") {
			sep = `\`
			rest = strings.ReplaceAll(rest, "/", `\`)
		}
		if rest == "" {
			return client
		}
		return client + sep + strings.TrimLeft(rest, `/\`)
	}
	return abs
}

// cutPrefix strips prefix from path when it ends on a path boundary.
func cutPrefix(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := path[len(prefix):]
	if rest != "" && rest[0] != '/' && rest[0] != filepath.Separator {
		return "", false
	}
	return rest, true
}
