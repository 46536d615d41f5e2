package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestDisabledProviderRecordsNothing(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	provider, err := NewProvider(lc, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	require.False(t, span.IsRecording())
}

func TestUnsupportedExporterProtocol(t *testing.T) {
	_, err := newExporter("carrier-pigeon", "localhost:4317")
	require.Error(t, err)
}
