package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestNewScheduler_Disabled(t *testing.T) {
	s, err := NewScheduler("  ", nil, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, s)

	// A disabled scheduler is inert.
	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidExpression(t *testing.T) {
	for _, expr := range []string{"every day", "0 9 * *", "0 0 9 * * *"} {
		s, err := NewScheduler(expr, nil, zap.NewNop())
		assert.Nil(t, s)
		assert.ErrorContains(t, err, "invalid report schedule", expr)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewReporter(new(mockRecorder), new(mockNotifier), 10, zap.NewNop())
	s, err := NewScheduler("0 9 * * 1-5", reporter, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, s)

	s.Start()
	s.Stop()
}
