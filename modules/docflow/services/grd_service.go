package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

const grdAllocateAttempts = 5

type IssueParams struct {
	EmittedBy      string
	DeliveryMethod string
	Observations   string
}

// GRDService issues transmittal records. Issue is the gate: it re-checks
// every precondition inside the transaction that writes the record, so a
// record can only exist for a request that was WAITING_ADM with a fully
// sequential document set at commit time.
type GRDService struct {
	repo      grd.Repository
	requests  request.Repository
	revisions request.RevisionStore
	publisher eventbus.EventBus
}

func NewGRDService(
	repo grd.Repository,
	requests request.Repository,
	revisions request.RevisionStore,
	publisher eventbus.EventBus,
) *GRDService {
	return &GRDService{repo: repo, requests: requests, revisions: revisions, publisher: publisher}
}

func (s *GRDService) GetPaginated(ctx context.Context, params *grd.FindParams) ([]grd.GRD, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *GRDService) GetByID(ctx context.Context, id int64) (grd.GRD, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GRDService) GetByProtocol(ctx context.Context, protocol string) (grd.GRD, error) {
	return s.repo.GetByProtocol(ctx, strings.TrimSpace(protocol))
}

// Check runs the revision-consistency validator without side effects. The
// snapshot is a plain read; verdicts may be stale by the time the caller
// acts, which is why Issue re-validates under the lock.
func (s *GRDService) Check(ctx context.Context, requestID int64) ([]request.Verdict, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	docs := req.Documents()
	revisions, err := s.revisions.Revisions(ctx, documentIDs(docs))
	if err != nil {
		return nil, err
	}
	return request.Validate(docs, revisions), nil
}

// Issue converts a WAITING_ADM request with a fully sequential document set
// into an immutable GRD, atomically moving the request to COMPLETED. The
// commit is the record's birth: a crash before it leaves the request in
// WAITING_ADM and no record behind.
func (s *GRDService) Issue(ctx context.Context, requestID int64, params IssueParams) (grd.GRD, error) {
	var issued grd.GRD
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if req.Status() != request.StatusWaitingAdm {
			return request.ErrInvalidState
		}
		docs := req.Documents()
		if len(docs) == 0 {
			return request.ErrEmptyDocumentSet
		}

		revisions, err := s.revisions.Revisions(txCtx, documentIDs(docs))
		if err != nil {
			return err
		}
		verdicts := request.Validate(docs, revisions)
		if !request.AllSequential(verdicts) {
			return request.NewRevisionMismatchError(verdicts)
		}

		completed, err := req.Transition(request.EventComplete)
		if err != nil {
			return err
		}
		if _, err := s.requests.UpdateStatus(txCtx, requestID, completed.Status(), req.UpdatedAt()); err != nil {
			return err
		}

		record, err := s.allocate(txCtx, req, params, grdItems(docs))
		if err != nil {
			return err
		}
		issued = record
		return nil
	})
	if err != nil {
		return grd.GRD{}, err
	}
	s.publisher.Publish("grd.issued", issued)
	return issued, nil
}

// allocate inserts the record, retrying with the next sequence value when
// the number or protocol collides with a concurrent issuance.
func (s *GRDService) allocate(ctx context.Context, req request.Request, params IssueParams, items []grd.Item) (grd.GRD, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return grd.GRD{}, err
	}

	now := time.Now()
	seq := count + 1
	for attempt := 0; attempt < grdAllocateAttempts; attempt++ {
		record := grd.New(
			fmt.Sprintf("GRD-%d-%06d", now.Year(), seq),
			fmt.Sprintf("PROT-%d-%06d", now.Year(), seq),
			req.ID(), req.ProjectID(), req.OriginID(), req.DestinationID(),
			req.Purpose(), params.DeliveryMethod, params.Observations, params.EmittedBy,
			now,
			items,
		)
		created, err := s.repo.Create(ctx, record)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, grd.ErrNumberTaken) {
			return grd.GRD{}, err
		}
		seq++
	}
	return grd.GRD{}, grd.ErrNumberTaken
}

func documentIDs(docs []request.DocumentRef) []int64 {
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.DocumentID)
	}
	return ids
}

func grdItems(docs []request.DocumentRef) []grd.Item {
	items := make([]grd.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, grd.Item{
			DocumentID: d.DocumentID,
			Code:       d.Code,
			Title:      d.Title,
			Revision:   d.UploadedRevision,
			Format:     d.Format,
			Pages:      d.Pages,
		})
	}
	return items
}
