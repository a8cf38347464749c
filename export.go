package ajx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Minifier produces a minified copy of a JavaScript file. An error keeps
// the unminified output; minification is never load-bearing.
type Minifier interface {
	Minify(src, dst string) error
}

// MinifierFunc adapts a function to the Minifier interface.
type MinifierFunc func(src, dst string) error

func (f MinifierFunc) Minify(src, dst string) error { return f(src, dst) }

// BundleSource supplies the exportable script and its content hash. Hash is
// only consulted once the fixed-final-file short circuit has not fired, and
// Bundle only when the hash-named file does not exist yet.
type BundleSource interface {
	Hash() string
	Bundle() string
}

// Exporter is the script export cache: a flat directory of files keyed by
// content hash, with an optional minified variant and an optional fixed
// final filename. Existence on disk is the only index - there is no
// manifest, and old hash-named files are never deleted, so previously
// issued URLs stay valid.
//
// Nothing here takes a lock. Concurrent first-requests for the same hash
// may race to populate the same files; that is acceptable because the
// content is deterministic for a given hash, and every write goes through
// a temp file plus rename so no reader observes a truncated file.
type Exporter struct {
	opts OptionStore
	min  Minifier
	log  *slog.Logger
}

// NewExporter creates an exporter reading its configuration from opts.
// min may be nil to disable minification regardless of js.app.minify.
func NewExporter(opts OptionStore, min Minifier, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{opts: opts, min: min, log: log}
}

// CanExport reports whether the export capability is available: export
// enabled, target URI and directory configured, and the directory present
// and writable. It is a probe - missing configuration is "capability
// unavailable", never an error.
func (e *Exporter) CanExport() bool {
	enabled := optBool(e.opts, "js.app.export", false) || optBool(e.opts, "js.app.extern", false)
	if !enabled {
		return false
	}
	if optString(e.opts, "js.app.uri", "") == "" {
		return false
	}
	dir := optString(e.opts, "js.app.dir", "")
	if dir == "" {
		return false
	}
	return dirWritable(dir)
}

// ResolveURL returns the URL of the exported bundle, creating cache files
// as needed:
//
//  1. A pre-existing file under the configured fixed final name wins
//     outright; the operator owns its invalidation, and neither the hash
//     nor the bundle content is computed.
//  2. Otherwise the candidate is {hash}.js, written if absent.
//  3. With minification enabled, an existing {hash}.min.js is reused, else
//     the minifier runs; on failure the unminified candidate stands.
//  4. With a fixed final name configured, the candidate is copied to it;
//     a failed copy falls back to the hash-named URL.
func (e *Exporter) ResolveURL(src BundleSource) (string, error) {
	dir := optString(e.opts, "js.app.dir", "")
	uri := optString(e.opts, "js.app.uri", "")
	minify := optBool(e.opts, "js.app.minify", false) && e.min != nil
	final := optString(e.opts, "js.app.file", "")

	if final != "" {
		name := final + ".js"
		if minify {
			name = final + ".min.js"
		}
		if fileExists(filepath.Join(dir, name)) {
			return joinURL(uri, name), nil
		}
	}

	hash := src.Hash()
	candidate := hash + ".js"
	plainPath := filepath.Join(dir, candidate)
	if !fileExists(plainPath) {
		if err := writeFileAtomic(plainPath, []byte(src.Bundle())); err != nil {
			return "", fmt.Errorf("ajx: write bundle: %w", err)
		}
	}

	if minify {
		minName := hash + ".min.js"
		minPath := filepath.Join(dir, minName)
		switch {
		case fileExists(minPath):
			candidate = minName
		default:
			if err := e.min.Minify(plainPath, minPath); err != nil {
				e.log.Warn("bundle minification failed, keeping unminified", "file", candidate, "error", err)
			} else {
				candidate = minName
			}
		}
	}

	if final != "" {
		name := final + ".js"
		if strings.HasSuffix(candidate, ".min.js") {
			name = final + ".min.js"
		}
		if err := copyFileAtomic(filepath.Join(dir, candidate), filepath.Join(dir, name)); err != nil {
			e.log.Warn("copy to final bundle name failed, using hash-named file", "final", name, "error", err)
			return joinURL(uri, candidate), nil
		}
		return joinURL(uri, name), nil
	}

	return joinURL(uri, candidate), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirWritable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe, err := os.CreateTemp(dir, ".ajx-probe-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

// writeFileAtomic writes via a temp file in the same directory plus rename,
// so a concurrent reader sees either the old file or the complete new one.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ajx-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data)
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
