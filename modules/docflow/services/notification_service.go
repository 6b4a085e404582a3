package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

// Sender dispatches one message to one recipient. Implementations must
// honor ctx cancellation; the service bounds every dispatch with a timeout.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationService asks the requester to fix a non-sequential submission.
// The contract is strict: the WAITING_ADM -> WAITING_CLIENT move happens only
// after dispatch succeeds, so a request is never parked waiting on a
// requester who was never told.
type NotificationService struct {
	requests  request.Repository
	revisions request.RevisionStore
	sender    Sender
	publisher eventbus.EventBus
	timeout   time.Duration
}

func NewNotificationService(
	requests request.Repository,
	revisions request.RevisionStore,
	sender Sender,
	publisher eventbus.EventBus,
	timeout time.Duration,
) *NotificationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationService{
		requests:  requests,
		revisions: revisions,
		sender:    sender,
		publisher: publisher,
		timeout:   timeout,
	}
}

// NotifyRequester sends the correction message and, only on successful
// dispatch, transitions the request to WAITING_CLIENT. An empty message is
// composed from the failing verdicts. Dispatch failure returns
// ErrDispatchFailed with the status untouched; the operator retries.
func (s *NotificationService) NotifyRequester(ctx context.Context, requestID int64, message string) (request.Request, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return request.Request{}, err
	}
	if req.RequesterContact() == "" {
		return request.Request{}, request.ErrNoRequesterContact
	}
	// Refuse before dispatch: sending and then failing the transition would
	// tell the requester to act on a request the table will not move.
	if _, err := request.Next(req.Status(), request.EventRequestCorrection); err != nil {
		return request.Request{}, err
	}

	body := strings.TrimSpace(message)
	if body == "" {
		body, err = s.composeCorrectionMessage(ctx, req)
		if err != nil {
			return request.Request{}, err
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	subject := fmt.Sprintf("Action needed on transmittal request %s", req.Number())
	if err := s.sender.Send(sendCtx, req.RequesterContact(), subject, body); err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", request.ErrDispatchFailed, err)
	}

	var out request.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		moved, err := current.Transition(request.EventRequestCorrection)
		if err != nil {
			return err
		}
		updated, err := s.requests.UpdateStatus(txCtx, requestID, moved.Status(), current.UpdatedAt())
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return request.Request{}, err
	}
	s.publisher.Publish("request.correction_requested", out)
	return out, nil
}

func (s *NotificationService) composeCorrectionMessage(ctx context.Context, req request.Request) (string, error) {
	docs := req.Documents()
	revisions, err := s.revisions.Revisions(ctx, documentIDs(docs))
	if err != nil {
		return "", err
	}
	failing := request.Failing(request.Validate(docs, revisions))

	var b strings.Builder
	fmt.Fprintf(&b, "Your transmittal request %s cannot be issued because the following documents are not at the expected revision:\n\n", req.Number())
	for _, v := range failing {
		fmt.Fprintf(&b, "- %s (%s): expected revision %d, submitted revision %d\n",
			v.Code, v.Title, v.RepositoryRevision+1, v.UploadedRevision)
	}
	b.WriteString("\nPlease resubmit the listed documents at the expected revision.\n")
	return b.String(), nil
}
