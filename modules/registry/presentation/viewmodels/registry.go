package viewmodels

import "time"

type Organization struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	OrgType      string    `json:"org_type"`
	CNPJ         string    `json:"cnpj,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Segment      string    `json:"segment,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ClientID  int64     `json:"client_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Document struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Revision  int       `json:"revision"`
	Format    string    `json:"format,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
