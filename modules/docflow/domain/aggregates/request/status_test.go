package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusInProgress, StatusWaitingClient, StatusWaitingAdm,
	StatusCompleted, StatusRejected, StatusCancelled,
}

var allEvents = []Event{
	EventOpen, EventApprove, EventReject, EventResubmit, EventCancel,
	EventRequestCorrection, EventComplete,
}

func TestNext_AllowedTransitions(t *testing.T) {
	cases := []struct {
		from  Status
		event Event
		to    Status
	}{
		{StatusPending, EventOpen, StatusInProgress},
		{StatusInProgress, EventApprove, StatusWaitingAdm},
		{StatusInProgress, EventReject, StatusRejected},
		{StatusWaitingAdm, EventRequestCorrection, StatusWaitingClient},
		{StatusWaitingAdm, EventComplete, StatusCompleted},
		{StatusWaitingClient, EventResubmit, StatusWaitingAdm},
		{StatusPending, EventCancel, StatusCancelled},
		{StatusInProgress, EventCancel, StatusCancelled},
		{StatusWaitingAdm, EventCancel, StatusCancelled},
		{StatusWaitingClient, EventCancel, StatusCancelled},
	}

	for _, c := range cases {
		got, err := Next(c.from, c.event)
		require.NoError(t, err, "%s --%s-->", c.from, c.event)
		require.Equal(t, c.to, got)
	}
}

// Everything not in the table is denied, never clamped.
func TestNext_DeniesEverythingOutsideTheTable(t *testing.T) {
	allowed := map[[2]string]bool{}
	for key := range transitions {
		allowed[[2]string{string(key.from), string(key.event)}] = true
	}

	for _, from := range allStatuses {
		for _, event := range allEvents {
			if allowed[[2]string{string(from), string(event)}] {
				continue
			}
			_, err := Next(from, event)
			require.ErrorIs(t, err, ErrInvalidTransition, "%s --%s--> must be denied", from, event)
		}
	}
}

func TestNext_TerminalStatusesAreImmutable(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusRejected, StatusCancelled} {
		require.True(t, from.IsTerminal())
		for _, event := range allEvents {
			_, err := Next(from, event)
			require.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
}

func TestEvent_CallerFacing(t *testing.T) {
	require.True(t, EventOpen.CallerFacing())
	require.True(t, EventApprove.CallerFacing())
	require.True(t, EventReject.CallerFacing())
	require.True(t, EventResubmit.CallerFacing())
	require.True(t, EventCancel.CallerFacing())
	require.False(t, EventRequestCorrection.CallerFacing())
	require.False(t, EventComplete.CallerFacing())
	require.False(t, Event("promote").CallerFacing())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range allStatuses {
		require.True(t, s.IsValid())
	}
	require.False(t, Status("ARCHIVED").IsValid())
	require.False(t, Status("").IsValid())
}
