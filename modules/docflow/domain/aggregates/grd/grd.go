package grd

import (
	"strings"
	"time"
)

type Status string

// Issued is the only status a GRD ever has. The column exists so the record
// is self-describing in exports and joins.
const StatusIssued Status = "ISSUED"

// Item freezes one document line at the moment of issuance. The revision
// recorded here is the uploaded revision that passed the sequential check.
type Item struct {
	DocumentID int64
	Code       string
	Title      string
	Revision   int
	Format     string
	Pages      int
}

// GRD is an issued transmittal record. It is immutable after insert;
// corrections require a new request and a new GRD.
type GRD struct {
	id             int64
	number         string
	protocol       string
	requestID      int64
	projectID      int64
	originID       int64
	destinationID  int64
	purpose        string
	deliveryMethod string
	observations   string
	emittedBy      string
	emittedAt      time.Time
	status         Status
	items          []Item
}

func New(
	number, protocol string,
	requestID, projectID, originID, destinationID int64,
	purpose, deliveryMethod, observations, emittedBy string,
	emittedAt time.Time,
	items []Item,
) GRD {
	return GRD{
		number:         strings.TrimSpace(number),
		protocol:       strings.TrimSpace(protocol),
		requestID:      requestID,
		projectID:      projectID,
		originID:       originID,
		destinationID:  destinationID,
		purpose:        strings.TrimSpace(purpose),
		deliveryMethod: strings.TrimSpace(deliveryMethod),
		observations:   strings.TrimSpace(observations),
		emittedBy:      strings.TrimSpace(emittedBy),
		emittedAt:      emittedAt,
		status:         StatusIssued,
		items:          items,
	}
}

func Hydrate(
	id int64,
	number, protocol string,
	requestID, projectID, originID, destinationID int64,
	purpose, deliveryMethod, observations, emittedBy string,
	emittedAt time.Time,
	status Status,
	items []Item,
) GRD {
	return GRD{
		id:             id,
		number:         number,
		protocol:       protocol,
		requestID:      requestID,
		projectID:      projectID,
		originID:       originID,
		destinationID:  destinationID,
		purpose:        purpose,
		deliveryMethod: deliveryMethod,
		observations:   observations,
		emittedBy:      emittedBy,
		emittedAt:      emittedAt,
		status:         status,
		items:          items,
	}
}

func (g GRD) ID() int64              { return g.id }
func (g GRD) Number() string         { return g.number }
func (g GRD) Protocol() string       { return g.protocol }
func (g GRD) RequestID() int64       { return g.requestID }
func (g GRD) ProjectID() int64       { return g.projectID }
func (g GRD) OriginID() int64        { return g.originID }
func (g GRD) DestinationID() int64   { return g.destinationID }
func (g GRD) Purpose() string        { return g.purpose }
func (g GRD) DeliveryMethod() string { return g.deliveryMethod }
func (g GRD) Observations() string   { return g.observations }
func (g GRD) EmittedBy() string      { return g.emittedBy }
func (g GRD) EmittedAt() time.Time   { return g.emittedAt }
func (g GRD) Status() Status         { return g.status }
func (g GRD) IsZero() bool           { return g.id == 0 && g.number == "" }

func (g GRD) Items() []Item {
	out := make([]Item, len(g.items))
	copy(out, g.items)
	return out
}
