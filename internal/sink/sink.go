// Package sink persists pipeline documents as whole-file JSON.
//
// Writes go to a temporary file in the destination directory which is then
// renamed over the target, so readers see either the previous complete
// document or the new one, never a partial file.
package sink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// JSONFile writes documents to a fixed path.
type JSONFile struct {
	path   string
	indent string
}

// Option configures a JSONFile.
type Option func(*JSONFile)

// WithIndent pretty-prints output using the given indent string.
func WithIndent(indent string) Option {
	return func(f *JSONFile) { f.indent = indent }
}

// New creates a sink writing to path.
func New(path string, opts ...Option) *JSONFile {
	f := &JSONFile{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the destination path.
func (f *JSONFile) Path() string { return f.path }

// Write encodes v and atomically replaces the destination file.
func (f *JSONFile) Write(v any) error {
	data, err := f.encode(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "sink: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "sink: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "sink: write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "sink: sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "sink: close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrapf(err, "sink: chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return eris.Wrapf(err, "sink: replace %s", f.path)
	}

	zap.L().Debug("sink: wrote document", zap.String("path", f.path), zap.Int("bytes", len(data)))
	return nil
}

// WriteEmpty persists an empty document after a run could not produce one.
// It is the last thing a failing run does, so its own failure is only logged
// and returned.
func (f *JSONFile) WriteEmpty(empty any) error {
	if err := f.Write(empty); err != nil {
		zap.L().Error("sink: emergency write failed", zap.String("path", f.path), zap.Error(err))
		return err
	}
	zap.L().Warn("sink: wrote empty document", zap.String("path", f.path))
	return nil
}

func (f *JSONFile) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.indent != "" {
		enc.SetIndent("", f.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "sink: encode document")
	}
	return buf.Bytes(), nil
}
