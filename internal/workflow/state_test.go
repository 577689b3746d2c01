package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_HappyPath(t *testing.T) {
	s := Idle
	for _, step := range []struct {
		event Event
		want  State
	}{
		{EventSubmit, Validating},
		{EventValid, Submitting},
		{EventSucceeded, Success},
		{EventSubmit, Validating},
		{EventInvalid, Failed},
		{EventReset, Idle},
	} {
		var err error
		s, err = next(s, step.event)
		require.NoError(t, err, step.event.String())
		assert.Equal(t, step.want, s)
	}
}

func TestNext_BusyRejectsSubmitAndReset(t *testing.T) {
	for _, s := range []State{Validating, Submitting} {
		got, err := next(s, EventSubmit)
		assert.ErrorIs(t, err, ErrBusy)
		assert.Equal(t, s, got)

		got, err = next(s, EventReset)
		assert.ErrorIs(t, err, ErrBusy)
		assert.Equal(t, s, got)
	}
}

func TestNext_InvalidTransition(t *testing.T) {
	got, err := next(Idle, EventSucceeded)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Equal(t, Idle, got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "state(42)", State(42).String())
}
