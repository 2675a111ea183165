// Package writer puts a render map on disk and optionally runs a C++
// formatter over the result.
package writer

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/codegen"
)

// Options controls Write.
type Options struct {
	// KeepExisting leaves the output directory in place instead of
	// clearing it before writing.
	KeepExisting bool
	Logger       *zap.Logger
}

// Write stores every file of m under dir and returns the written paths in
// sorted order.
func Write(ctx context.Context, dir string, m *codegen.RenderMap, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == string(filepath.Separator) {
		return nil, errors.WithHint(
			errors.Newf("refusing to write into %q", dir),
			"pass a dedicated output directory with --output")
	}

	if !opts.KeepExisting {
		if err := os.RemoveAll(clean); err != nil {
			return nil, errors.Wrapf(err, "clearing %s", clean)
		}
		log.Debug("cleared output directory", zap.String("dir", clean))
	}

	var written []string
	for _, rel := range m.Paths() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if !filepath.IsLocal(rel) {
			return written, errors.Newf("render path %q escapes the output directory", rel)
		}
		content, _ := m.Get(rel)
		path := filepath.Join(clean, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, errors.Wrapf(err, "creating directory for %s", rel)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return written, errors.Wrapf(err, "writing %s", rel)
		}
		written = append(written, path)
	}
	log.Info("wrote generated files", zap.String("dir", clean), zap.Int("files", len(written)))
	return written, nil
}

// Formatter describes the external code formatter.
type Formatter struct {
	// Command defaults to clang-format.
	Command string
	// Args is split with shell quoting rules and passed before -i.
	Args   string
	Logger *zap.Logger
}

// DefaultFormatter is the command used when none is configured.
const DefaultFormatter = "clang-format"

// Format runs the formatter in place over the .h and .cpp files among
// files and returns the ones it was given. Formatting problems are logged
// as warnings and never fail generation.
func Format(ctx context.Context, files []string, f Formatter) []string {
	log := f.Logger
	if log == nil {
		log = zap.NewNop()
	}
	command := f.Command
	if command == "" {
		command = DefaultFormatter
	}

	var sources []string
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".h", ".cpp":
			sources = append(sources, file)
		}
	}
	if len(sources) == 0 {
		return nil
	}

	binary, err := exec.LookPath(command)
	if err != nil {
		log.Warn("formatter not found, leaving files unformatted",
			zap.String("command", command), zap.Error(err))
		return nil
	}
	extra, err := shellquote.Split(f.Args)
	if err != nil {
		log.Warn("invalid formatter arguments",
			zap.String("args", f.Args), zap.Error(err))
		return nil
	}

	args := append(extra, "-i")
	args = append(args, sources...)
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		log.Warn("formatter failed",
			zap.String("command", command),
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return nil
	}
	log.Debug("formatted files", zap.String("command", command), zap.Int("files", len(sources)))
	return sources
}
