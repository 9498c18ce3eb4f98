package seed

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"revshare/application/ports"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// StdoutPath is the path spelling that routes a script to standard
// output, alongside the empty string.
const StdoutPath = "-"

// FileScriptWriter lands generated scripts on disk, or on standard
// output when no path is given.
type FileScriptWriter struct {
	stdout io.Writer
	logger *zap.Logger
}

// NewFileScriptWriter creates a script writer. A nil stdout falls back
// to the process's standard output.
func NewFileScriptWriter(stdout io.Writer, logger *zap.Logger) *FileScriptWriter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileScriptWriter{
		stdout: stdout,
		logger: logger,
	}
}

// Write stores the script content at the given path
func (w *FileScriptWriter) Write(ctx context.Context, path string, content string) error {
	if path == "" || path == StdoutPath {
		if _, err := io.WriteString(w.stdout, content); err != nil {
			return pkgerrors.Wrap(err, "failed to write script to stdout")
		}
		return nil
	}

	if err := utils.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write script to %s", path)
	}

	w.logger.Info("wrote script",
		zap.String("path", path),
		zap.Int("bytes", len(content)),
	)
	return nil
}

var _ ports.ScriptWriter = (*FileScriptWriter)(nil)
