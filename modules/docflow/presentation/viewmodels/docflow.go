package viewmodels

import "time"

type DocumentRef struct {
	DocumentID       int64  `json:"document_id"`
	Code             string `json:"code"`
	Title            string `json:"title"`
	UploadedRevision int    `json:"uploaded_revision"`
	Format           string `json:"format,omitempty"`
	Pages            int    `json:"pages,omitempty"`
}

type Request struct {
	ID                  int64         `json:"id"`
	Number              string        `json:"number"`
	ProjectID           int64         `json:"project_id"`
	OriginID            int64         `json:"origin_id"`
	DestinationID       int64         `json:"destination_id"`
	Purpose             string        `json:"purpose"`
	Description         string        `json:"description,omitempty"`
	Justification       string        `json:"justification,omitempty"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	RequesterName       string        `json:"requester_name"`
	RequesterContact    string        `json:"requester_contact,omitempty"`
	Documents           []DocumentRef `json:"documents"`
	Status              string        `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// Verdict explains one document's revision check so the UI can say exactly
// why issuance is blocked.
type Verdict struct {
	DocumentID         int64  `json:"document_id"`
	Code               string `json:"code"`
	Title              string `json:"title"`
	RepositoryRevision int    `json:"repository_revision"`
	UploadedRevision   int    `json:"uploaded_revision"`
	ExpectedRevision   int    `json:"expected_revision"`
	Sequential         bool   `json:"sequential"`
	Delta              int    `json:"delta"`
}

type GRDItem struct {
	DocumentID int64  `json:"document_id"`
	Code       string `json:"code"`
	Title      string `json:"title"`
	Revision   int    `json:"revision"`
	Format     string `json:"format,omitempty"`
	Pages      int    `json:"pages,omitempty"`
}

type GRD struct {
	ID             int64     `json:"id"`
	Number         string    `json:"number"`
	Protocol       string    `json:"protocol"`
	RequestID      int64     `json:"request_id"`
	ProjectID      int64     `json:"project_id"`
	OriginID       int64     `json:"origin_id"`
	DestinationID  int64     `json:"destination_id"`
	Purpose        string    `json:"purpose"`
	DeliveryMethod string    `json:"delivery_method,omitempty"`
	Observations   string    `json:"observations,omitempty"`
	EmittedBy      string    `json:"emitted_by"`
	EmittedAt      time.Time `json:"emitted_at"`
	Status         string    `json:"status"`
	Items          []GRDItem `json:"items"`
}
