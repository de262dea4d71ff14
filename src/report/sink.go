package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/iafilius/TUVxPlots/src/charts"
)

// Sink stores the encoded forms of one report.
type Sink interface {
	Save(name string, raster, vector []byte) (Artifacts, error)
}

// FileSink writes {Prefix}_{name}.png and .svg into Dir.
type FileSink struct {
	Dir    string
	Prefix string
}

// Path returns where the report name is written in format f.
func (s FileSink) Path(name string, f charts.Format) string {
	base := name
	if s.Prefix != "" {
		base = s.Prefix + "_" + name
	}
	return filepath.Join(s.Dir, base+"."+f.Ext())
}

func (s FileSink) Save(name string, raster, vector []byte) (Artifacts, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return Artifacts{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	a := Artifacts{Raster: s.Path(name, charts.PNG), Vector: s.Path(name, charts.SVG)}
	if err := os.WriteFile(a.Raster, raster, 0o644); err != nil {
		return Artifacts{}, err
	}
	if err := os.WriteFile(a.Vector, vector, 0o644); err != nil {
		return Artifacts{}, err
	}
	return a, nil
}

// MemorySink keeps artifacts in memory, keyed by name and extension. Safe for
// concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *MemorySink) Save(name string, raster, vector []byte) (Artifacts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	a := Artifacts{Raster: name + "." + charts.PNG.Ext(), Vector: name + "." + charts.SVG.Ext()}
	m.files[a.Raster] = raster
	m.files[a.Vector] = vector
	return a, nil
}

// File returns a stored artifact such as "beer_lambert.png".
func (m *MemorySink) File(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[key]
	return b, ok
}

// Keys lists stored artifacts in sorted order.
func (m *MemorySink) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
