package document

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPlanned  Status = "PLANNED"
	StatusInReview Status = "IN_REVIEW"
	StatusReleased Status = "RELEASED"
)

// Document is the authoritative repository record of an engineering document.
// Its revision counter is dense: every accepted transmittal advances it by
// exactly one, which is what the docflow validator relies on.
type Document struct {
	id        int64
	projectID int64
	code      string
	title     string
	revision  int
	format    string
	pages     int
	fileURL   string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func New(projectID int64, code, title, format string, pages int, fileURL string) Document {
	return Document{
		projectID: projectID,
		code:      strings.TrimSpace(code),
		title:     strings.TrimSpace(title),
		revision:  0,
		format:    strings.TrimSpace(format),
		pages:     pages,
		fileURL:   strings.TrimSpace(fileURL),
		status:    StatusPlanned,
	}
}

func Hydrate(
	id int64,
	projectID int64,
	code string,
	title string,
	revision int,
	format string,
	pages int,
	fileURL string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Document {
	return Document{
		id:        id,
		projectID: projectID,
		code:      code,
		title:     title,
		revision:  revision,
		format:    format,
		pages:     pages,
		fileURL:   fileURL,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (d Document) ID() int64            { return d.id }
func (d Document) ProjectID() int64     { return d.projectID }
func (d Document) Code() string         { return d.code }
func (d Document) Title() string        { return d.title }
func (d Document) Revision() int        { return d.revision }
func (d Document) Format() string       { return d.format }
func (d Document) Pages() int           { return d.pages }
func (d Document) FileURL() string      { return d.fileURL }
func (d Document) Status() Status       { return d.status }
func (d Document) CreatedAt() time.Time { return d.createdAt }
func (d Document) UpdatedAt() time.Time { return d.updatedAt }
func (d Document) IsZero() bool         { return d.id == 0 && d.code == "" }
