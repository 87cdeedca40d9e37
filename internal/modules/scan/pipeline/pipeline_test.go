package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarbonScore(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       int
	}{
		{"zero confidence", 0, 0},
		{"full confidence", 1, 100},
		{"typical match", 0.92, 92},
		{"rounds up", 0.885, 89},
		{"rounds down", 0.884, 88},
		{"half rounds away from zero", 0.005, 1},
		{"just below half", 0.004, 0},
		{"low confidence", 0.01, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CarbonScore(tt.confidence))
		})
	}
}

func TestAttemptTransitions(t *testing.T) {
	a := &Attempt{State: StateIdentified}

	require.NoError(t, a.Transition(StateCommitting))
	require.NoError(t, a.Transition(StateCommitFailed))

	// A failed commit may be retried.
	require.NoError(t, a.Transition(StateCommitting))
	require.NoError(t, a.Transition(StateCommitted))

	// Committed is terminal.
	assert.Error(t, a.Transition(StateCommitting))
	assert.Equal(t, StateCommitted, a.State)
}

func TestAttemptRejectsSkippedStates(t *testing.T) {
	a := &Attempt{State: StateIdentified}

	assert.Error(t, a.Transition(StateCommitted))
	assert.Error(t, a.Transition(StateCommitFailed))
	assert.Equal(t, StateIdentified, a.State)
}
