package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/application/commands"
	"revshare/application/ports"
	"revshare/domain/events"
	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
)

type fakeSeedGenerator struct {
	script         *ports.SeedScript
	err            error
	gotFingerprint string
}

func (g *fakeSeedGenerator) Generate(ctx context.Context, dataset *ingestion.Dataset, fingerprint string) (*ports.SeedScript, error) {
	g.gotFingerprint = fingerprint
	if g.err != nil {
		return nil, g.err
	}
	return g.script, nil
}

type fakeScriptWriter struct {
	path    string
	content string
	calls   int
}

func (w *fakeScriptWriter) Write(ctx context.Context, path, content string) error {
	w.path = path
	w.content = content
	w.calls++
	return nil
}

func TestGenerateSeedHandlerWritesScript(t *testing.T) {
	generator := &fakeSeedGenerator{
		script: &ports.SeedScript{
			SQL:            "BEGIN;\nCOMMIT;\n",
			StatementCount: 7,
			Fingerprint:    handlerFingerprint,
		},
	}
	scripts := &fakeScriptWriter{}
	publisher := &stubPublisher{}
	handler := NewGenerateSeedHandler(
		handlerDataset(), handlerFingerprint, generator, scripts, publisher,
		func() time.Time { return handlerInstant }, zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.GenerateSeedCommand{OutputPath: "seed.sql"})
	require.NoError(t, err)

	assert.Equal(t, handlerFingerprint, generator.gotFingerprint)
	assert.Equal(t, 1, scripts.calls)
	assert.Equal(t, "seed.sql", scripts.path)
	assert.Equal(t, "BEGIN;\nCOMMIT;\n", scripts.content)

	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(events.SeedScriptGenerated)
	require.True(t, ok)
	assert.Equal(t, 7, event.StatementCount)
	assert.Equal(t, "seed.sql", event.OutputPath)
	assert.Equal(t, handlerInstant, event.GetTimestamp())
}

func TestGenerateSeedHandlerGeneratorError(t *testing.T) {
	generator := &fakeSeedGenerator{err: pkgerrors.NewInternalError("generator broke")}
	scripts := &fakeScriptWriter{}
	handler := NewGenerateSeedHandler(
		handlerDataset(), handlerFingerprint, generator, scripts, &stubPublisher{},
		nil, zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.GenerateSeedCommand{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsInternal(err))
	assert.Zero(t, scripts.calls)
}

var _ ports.SeedGenerator = (*fakeSeedGenerator)(nil)
var _ ports.ScriptWriter = (*fakeScriptWriter)(nil)
