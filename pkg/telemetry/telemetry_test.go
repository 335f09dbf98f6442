package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDisabledReturnsNoopMeter(t *testing.T) {
	tel, shutdown, err := New(Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tel.Meter)
	require.Nil(t, tel.MeterProvider)

	// Instruments from the no-op meter must be safe to use.
	counter, err := tel.Meter.Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, shutdown(context.Background()))
}
