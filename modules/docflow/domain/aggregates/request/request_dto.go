package request

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adi-digital/docscriptum/pkg/constants"
	"github.com/adi-digital/docscriptum/pkg/serrors"
)

type DocumentRefDTO struct {
	DocumentID       int64  `json:"document_id" validate:"required,gt=0"`
	Code             string `json:"code" validate:"required"`
	Title            string `json:"title" validate:"required"`
	UploadedRevision int    `json:"uploaded_revision" validate:"required,gt=0"`
	Format           string `json:"format"`
	Pages            int    `json:"pages" validate:"gte=0"`
}

type CreateDTO struct {
	ProjectID           int64            `json:"project_id" validate:"required,gt=0"`
	OriginID            int64            `json:"origin_id" validate:"required,gt=0"`
	DestinationID       int64            `json:"destination_id" validate:"required,gt=0"`
	Purpose             string           `json:"purpose" validate:"required"`
	Description         string           `json:"description"`
	Justification       string           `json:"justification"`
	SpecialInstructions string           `json:"special_instructions"`
	RequesterName       string           `json:"requester_name" validate:"required"`
	RequesterContact    string           `json:"requester_contact" validate:"omitempty,email"`
	Documents           []DocumentRefDTO `json:"documents" validate:"required,min=1,dive"`
}

func (d *CreateDTO) Normalize() {
	d.Purpose = strings.TrimSpace(d.Purpose)
	d.Description = strings.TrimSpace(d.Description)
	d.Justification = strings.TrimSpace(d.Justification)
	d.SpecialInstructions = strings.TrimSpace(d.SpecialInstructions)
	d.RequesterName = strings.TrimSpace(d.RequesterName)
	d.RequesterContact = strings.TrimSpace(d.RequesterContact)
	for i := range d.Documents {
		d.Documents[i].Code = strings.TrimSpace(d.Documents[i].Code)
		d.Documents[i].Title = strings.TrimSpace(d.Documents[i].Title)
		d.Documents[i].Format = strings.TrimSpace(d.Documents[i].Format)
	}
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	fieldErrs := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), func(string) string { return "" })
	return serrors.MessageMap(fieldErrs), false
}

// ToEntity builds the pending request; the number is assigned by the service.
func (d *CreateDTO) ToEntity(number string) Request {
	docs := make([]DocumentRef, 0, len(d.Documents))
	for _, doc := range d.Documents {
		docs = append(docs, DocumentRef{
			DocumentID:       doc.DocumentID,
			Code:             doc.Code,
			Title:            doc.Title,
			UploadedRevision: doc.UploadedRevision,
			Format:           doc.Format,
			Pages:            doc.Pages,
		})
	}
	return New(
		number,
		d.ProjectID, d.OriginID, d.DestinationID,
		d.Purpose, d.Description, d.Justification, d.SpecialInstructions,
		d.RequesterName, d.RequesterContact,
		docs,
	)
}
