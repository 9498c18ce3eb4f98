package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revshare/application/ports"
	"revshare/pkg/common"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// Envelope wraps a stored report document so downstream tooling can
// tell successful runs from failed ones without parsing the payload
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MetaInfo contains metadata about the stored document
type MetaInfo struct {
	RunID       string `json:"run_id,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

// JSONReportWriter stores report documents and debug artifacts as
// indented JSON files. Final reports land wherever the caller points;
// artifacts always land under the configured logs directory.
type JSONReportWriter struct {
	logsDir string
	now     func() time.Time
	logger  *zap.Logger
}

// JSONReportWriterOption adjusts writer construction
type JSONReportWriterOption func(*JSONReportWriter)

// WithReportClock pins the generated-at stamp on stored reports
func WithReportClock(now func() time.Time) JSONReportWriterOption {
	return func(w *JSONReportWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// NewJSONReportWriter creates a new JSON report writer
func NewJSONReportWriter(logsDir string, logger *zap.Logger, opts ...JSONReportWriterOption) *JSONReportWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &JSONReportWriter{
		logsDir: logsDir,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteReport stores a final report document at the given path, wrapped
// in the response envelope. The run id comes from the invocation context
// when the CLI stamped one, so the stored document correlates with log
// output.
func (w *JSONReportWriter) WriteReport(ctx context.Context, path string, report interface{}) error {
	runID, ok := common.GetRunID(ctx)
	if !ok {
		runID = uuid.NewString()
	}

	envelope := Envelope{
		Success: true,
		Data:    report,
		Meta: &MetaInfo{
			RunID:       runID,
			GeneratedAt: w.now().UTC().Format(time.RFC3339),
		},
	}

	if err := w.writeJSON(path, envelope); err != nil {
		return err
	}

	w.logger.Info("wrote report", zap.String("path", path))
	return nil
}

// WriteArtifact stores an intermediate debug payload under the logs
// directory. Artifacts are raw payloads, not envelopes, so they diff
// cleanly between runs.
func (w *JSONReportWriter) WriteArtifact(ctx context.Context, name string, payload interface{}) error {
	path := filepath.Join(w.logsDir, name)

	if err := w.writeJSON(path, payload); err != nil {
		return err
	}

	w.logger.Debug("wrote debug artifact", zap.String("path", path))
	return nil
}

func (w *JSONReportWriter) writeJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode JSON for %s", path)
	}

	if err := utils.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

var _ ports.ReportWriter = (*JSONReportWriter)(nil)
