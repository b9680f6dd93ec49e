package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Saver persists synthesized timelines. Filenames encode the method, the
// source document's base name, and a generation timestamp; existing files
// are never overwritten.
type Saver struct {
	dir string
	now func() time.Time
}

// Output describes one saved timeline file.
type Output struct {
	Path    string
	Method  string
	ModTime time.Time
}

// NewSaver writes timelines under dir.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir, now: time.Now}
}

// Save writes the timeline and returns the path it was written to. When the
// timestamped name is already taken (two runs within one second), a short
// random suffix keeps the older file intact.
func (s *Saver) Save(content, sourcePath, method string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	stamp := s.now().Format("20060102_150405")

	name := fmt.Sprintf("%s_timeline_%s_%s.txt", method, base, stamp)
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		name = fmt.Sprintf("%s_timeline_%s_%s_%s.txt", method, base, stamp, uuid.NewString()[:8])
		path = filepath.Join(s.dir, name)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create timeline file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return "", fmt.Errorf("failed to write timeline file: %w", err)
	}
	return path, nil
}

// List returns all saved timeline outputs, newest first.
func (s *Saver) List() ([]Output, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var outputs []Output
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), "_timeline_") || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		method := "unknown"
		switch {
		case strings.HasPrefix(e.Name(), "map_reduce_timeline_"):
			method = "map_reduce"
		case strings.HasPrefix(e.Name(), "refine_timeline_"):
			method = "refine"
		}
		outputs = append(outputs, Output{
			Path:    filepath.Join(s.dir, e.Name()),
			Method:  method,
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].ModTime.After(outputs[j].ModTime) })
	return outputs, nil
}

// Latest returns the most recent output for the given method, or an empty
// path when none exists.
func (s *Saver) Latest(method string) (Output, error) {
	outputs, err := s.List()
	if err != nil {
		return Output{}, err
	}
	for _, o := range outputs {
		if o.Method == method {
			return o, nil
		}
	}
	return Output{}, nil
}
