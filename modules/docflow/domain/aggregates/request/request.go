package request

import (
	"strings"
	"time"
)

// Request is a transmittal request: a set of documents someone wants issued
// from one organization to another, moving through the lifecycle table in
// status.go. Status is its only mutable part and only Transition may move it.
type Request struct {
	id                  int64
	number              string
	projectID           int64
	originID            int64
	destinationID       int64
	purpose             string
	description         string
	justification       string
	specialInstructions string
	requesterName       string
	requesterContact    string
	documents           []DocumentRef
	status              Status
	createdAt           time.Time
	updatedAt           time.Time
}

func New(
	number string,
	projectID, originID, destinationID int64,
	purpose, description, justification, specialInstructions string,
	requesterName, requesterContact string,
	documents []DocumentRef,
) Request {
	return Request{
		number:              strings.TrimSpace(number),
		projectID:           projectID,
		originID:            originID,
		destinationID:       destinationID,
		purpose:             strings.TrimSpace(purpose),
		description:         strings.TrimSpace(description),
		justification:       strings.TrimSpace(justification),
		specialInstructions: strings.TrimSpace(specialInstructions),
		requesterName:       strings.TrimSpace(requesterName),
		requesterContact:    strings.TrimSpace(requesterContact),
		documents:           dedupeDocuments(documents),
		status:              StatusPending,
	}
}

func Hydrate(
	id int64,
	number string,
	projectID, originID, destinationID int64,
	purpose, description, justification, specialInstructions string,
	requesterName, requesterContact string,
	documents []DocumentRef,
	status Status,
	createdAt, updatedAt time.Time,
) Request {
	return Request{
		id:                  id,
		number:              number,
		projectID:           projectID,
		originID:            originID,
		destinationID:       destinationID,
		purpose:             purpose,
		description:         description,
		justification:       justification,
		specialInstructions: specialInstructions,
		requesterName:       requesterName,
		requesterContact:    requesterContact,
		documents:           documents,
		status:              status,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// dedupeDocuments keeps the first occurrence per document id, preserving the
// submission order.
func dedupeDocuments(docs []DocumentRef) []DocumentRef {
	seen := make(map[int64]struct{}, len(docs))
	out := make([]DocumentRef, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.DocumentID]; ok {
			continue
		}
		seen[d.DocumentID] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (r Request) ID() int64                   { return r.id }
func (r Request) Number() string              { return r.number }
func (r Request) ProjectID() int64            { return r.projectID }
func (r Request) OriginID() int64             { return r.originID }
func (r Request) DestinationID() int64        { return r.destinationID }
func (r Request) Purpose() string             { return r.purpose }
func (r Request) Description() string         { return r.description }
func (r Request) Justification() string       { return r.justification }
func (r Request) SpecialInstructions() string { return r.specialInstructions }
func (r Request) RequesterName() string       { return r.requesterName }
func (r Request) RequesterContact() string    { return r.requesterContact }
func (r Request) Status() Status              { return r.status }
func (r Request) CreatedAt() time.Time        { return r.createdAt }
func (r Request) UpdatedAt() time.Time        { return r.updatedAt }
func (r Request) IsZero() bool                { return r.id == 0 && r.number == "" }

// Documents returns a copy; callers cannot mutate the line items in place.
func (r Request) Documents() []DocumentRef {
	out := make([]DocumentRef, len(r.documents))
	copy(out, r.documents)
	return out
}

// Transition applies one event from the lifecycle table and returns the
// moved request. The persisted updatedAt is owned by the repository write,
// not by this method.
func (r Request) Transition(event Event) (Request, error) {
	next, err := Next(r.status, event)
	if err != nil {
		return r, err
	}
	moved := r
	moved.status = next
	return moved, nil
}
