package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileScriptWriterStdout(t *testing.T) {
	for _, path := range []string{"", StdoutPath} {
		var buf bytes.Buffer
		writer := NewFileScriptWriter(&buf, zap.NewNop())

		require.NoError(t, writer.Write(context.Background(), path, "BEGIN;\nCOMMIT;\n"))
		assert.Equal(t, "BEGIN;\nCOMMIT;\n", buf.String())
	}
}

func TestFileScriptWriterFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "sql", "seed.sql")
	writer := NewFileScriptWriter(&buf, zap.NewNop())

	require.NoError(t, writer.Write(context.Background(), path, "BEGIN;\nCOMMIT;\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN;\nCOMMIT;\n", string(content))
	assert.Zero(t, buf.Len())
}
