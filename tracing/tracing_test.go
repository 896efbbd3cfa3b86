package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupUnsupportedExporter(t *testing.T) {
	_, err := Setup(context.Background(), Config{Enabled: true, Exporter: "jaeger"})
	assert.ErrorContains(t, err, "unsupported exporter")
}

func TestSetupZipkin(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: true, Exporter: ExporterZipkin, Endpoint: "http://127.0.0.1:1/api/v2/spans"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
