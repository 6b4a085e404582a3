package models

import "time"

type Organization struct {
	ID           int64
	Name         string
	OrgType      string
	CNPJ         string
	ContactEmail string
	Segment      string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Project struct {
	ID        int64
	Code      string
	Name      string
	ClientID  int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Document struct {
	ID        int64
	ProjectID int64
	Code      string
	Title     string
	Revision  int
	Format    string
	Pages     int
	FileURL   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
