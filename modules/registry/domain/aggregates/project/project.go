package project

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusOnHold   Status = "ON_HOLD"
	StatusArchived Status = "ARCHIVED"
)

type Project struct {
	id        int64
	code      string
	name      string
	clientID  int64
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func New(code, name string, clientID int64) Project {
	return Project{
		code:     strings.TrimSpace(code),
		name:     strings.TrimSpace(name),
		clientID: clientID,
		status:   StatusActive,
	}
}

func Hydrate(
	id int64,
	code string,
	name string,
	clientID int64,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Project {
	return Project{
		id:        id,
		code:      code,
		name:      name,
		clientID:  clientID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p Project) ID() int64            { return p.id }
func (p Project) Code() string         { return p.code }
func (p Project) Name() string         { return p.name }
func (p Project) ClientID() int64      { return p.clientID }
func (p Project) Status() Status       { return p.status }
func (p Project) CreatedAt() time.Time { return p.createdAt }
func (p Project) UpdatedAt() time.Time { return p.updatedAt }
func (p Project) IsZero() bool         { return p.id == 0 && p.code == "" }
