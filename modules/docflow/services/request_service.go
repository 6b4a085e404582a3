package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

// RequestService is the lifecycle engine: the only component that writes
// request status events to the store.
type RequestService struct {
	repo      request.Repository
	publisher eventbus.EventBus
}

func NewRequestService(repo request.Repository, publisher eventbus.EventBus) *RequestService {
	return &RequestService{repo: repo, publisher: publisher}
}

func (s *RequestService) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *RequestService) GetByID(ctx context.Context, id int64) (request.Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RequestService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *RequestService) Create(ctx context.Context, dto *request.CreateDTO) (request.Request, error) {
	if dto == nil {
		return request.Request{}, errors.New("missing dto")
	}
	dto.Normalize()
	created, err := s.repo.Create(ctx, dto.ToEntity(newRequestNumber(time.Now())))
	if err != nil {
		return request.Request{}, err
	}
	s.publisher.Publish("request.created", created)
	return created, nil
}

// Transition applies one lifecycle event under a row lock with a
// compare-and-swap on updated_at. ErrConflict means the caller lost a race
// and should retry with a fresh read.
func (s *RequestService) Transition(ctx context.Context, id int64, event request.Event) (request.Request, error) {
	var out request.Request
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		moved, err := current.Transition(event)
		if err != nil {
			return err
		}
		updated, err := s.repo.UpdateStatus(txCtx, id, moved.Status(), current.UpdatedAt())
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return request.Request{}, err
	}
	s.publisher.Publish("request.transitioned", out)
	return out, nil
}

// newRequestNumber builds REQ-<year>-<6 hex chars>. Collisions are absorbed
// by the unique index on the column; they are vanishingly rare within a year.
func newRequestNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("REQ-%d-%s", now.Year(), suffix)
}
