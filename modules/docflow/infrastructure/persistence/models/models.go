package models

import "time"

type Request struct {
	ID                  int64
	Number              string
	ProjectID           int64
	OriginID            int64
	DestinationID       int64
	Purpose             string
	Description         string
	Justification       string
	SpecialInstructions string
	RequesterName       string
	RequesterContact    string
	Status              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type RequestDocument struct {
	RequestID        int64
	DocumentID       int64
	Code             string
	Title            string
	UploadedRevision int
	Format           string
	Pages            int
	Position         int
}

type GRD struct {
	ID             int64
	Number         string
	Protocol       string
	RequestID      int64
	ProjectID      int64
	OriginID       int64
	DestinationID  int64
	Purpose        string
	DeliveryMethod string
	Observations   string
	EmittedBy      string
	EmittedAt      time.Time
	Status         string
}

type GRDItem struct {
	GRDID      int64
	DocumentID int64
	Code       string
	Title      string
	Revision   int
	Format     string
	Pages      int
	Position   int
}
