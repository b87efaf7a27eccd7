package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/schedule-gateway/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "schedule-gateway", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_Enabled(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "schedule-gateway", "http://127.0.0.1:4318")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	t.Cleanup(func() { _ = shutdown(context.Background()) })
}
