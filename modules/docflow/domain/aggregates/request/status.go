package request

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusWaitingClient Status = "WAITING_CLIENT"
	StatusWaitingAdm    Status = "WAITING_ADM"
	StatusCompleted     Status = "COMPLETED"
	StatusRejected      Status = "REJECTED"
	StatusCancelled     Status = "CANCELLED"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusWaitingClient, StatusWaitingAdm,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Event names a lifecycle trigger. Open through Cancel are caller-facing;
// RequestCorrection and Complete are fired only by the notification and
// issuance flows respectively.
type Event string

const (
	EventOpen              Event = "open"
	EventApprove           Event = "approve"
	EventReject            Event = "reject"
	EventResubmit          Event = "resubmit"
	EventCancel            Event = "cancel"
	EventRequestCorrection Event = "request_correction"
	EventComplete          Event = "complete"
)

// CallerFacing reports whether the event may arrive over the transition API.
func (e Event) CallerFacing() bool {
	switch e {
	case EventOpen, EventApprove, EventReject, EventResubmit, EventCancel:
		return true
	}
	return false
}

type transitionKey struct {
	from  Status
	event Event
}

var transitions = map[transitionKey]Status{
	{StatusPending, EventOpen}:                 StatusInProgress,
	{StatusInProgress, EventApprove}:           StatusWaitingAdm,
	{StatusInProgress, EventReject}:            StatusRejected,
	{StatusWaitingAdm, EventRequestCorrection}: StatusWaitingClient,
	{StatusWaitingAdm, EventComplete}:          StatusCompleted,
	{StatusWaitingClient, EventResubmit}:       StatusWaitingAdm,
	{StatusPending, EventCancel}:               StatusCancelled,
	{StatusInProgress, EventCancel}:            StatusCancelled,
	{StatusWaitingAdm, EventCancel}:            StatusCancelled,
	{StatusWaitingClient, EventCancel}:         StatusCancelled,
}

// Next resolves the transition table. Anything not listed is refused; the
// engine never clamps to the nearest valid state.
func Next(from Status, event Event) (Status, error) {
	to, ok := transitions[transitionKey{from, event}]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}
