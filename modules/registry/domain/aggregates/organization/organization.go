package organization

import (
	"strings"
	"time"
)

type Type string

const (
	TypeClient   Type = "CLIENT"
	TypeSupplier Type = "SUPPLIER"
	TypeInternal Type = "INTERNAL"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Organization struct {
	id           int64
	name         string
	orgType      Type
	cnpj         string
	contactEmail string
	segment      string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func New(name string, orgType Type, cnpj, contactEmail, segment string) Organization {
	return Organization{
		name:         strings.TrimSpace(name),
		orgType:      orgType,
		cnpj:         strings.TrimSpace(cnpj),
		contactEmail: strings.TrimSpace(contactEmail),
		segment:      strings.TrimSpace(segment),
		status:       StatusActive,
	}
}

func Hydrate(
	id int64,
	name string,
	orgType Type,
	cnpj string,
	contactEmail string,
	segment string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Organization {
	return Organization{
		id:           id,
		name:         name,
		orgType:      orgType,
		cnpj:         cnpj,
		contactEmail: contactEmail,
		segment:      segment,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (o Organization) ID() int64            { return o.id }
func (o Organization) Name() string         { return o.name }
func (o Organization) OrgType() Type        { return o.orgType }
func (o Organization) CNPJ() string         { return o.cnpj }
func (o Organization) ContactEmail() string { return o.contactEmail }
func (o Organization) Segment() string      { return o.segment }
func (o Organization) Status() Status       { return o.status }
func (o Organization) CreatedAt() time.Time { return o.createdAt }
func (o Organization) UpdatedAt() time.Time { return o.updatedAt }
func (o Organization) IsZero() bool         { return o.id == 0 && o.name == "" }
