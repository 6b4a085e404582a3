package document

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adi-digital/docscriptum/pkg/constants"
	"github.com/adi-digital/docscriptum/pkg/serrors"
)

type CreateDTO struct {
	ProjectID int64  `json:"project_id" validate:"required,gt=0"`
	Code      string `json:"code" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Format    string `json:"format"`
	Pages     int    `json:"pages" validate:"gte=0"`
	FileURL   string `json:"file_url"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Title = strings.TrimSpace(d.Title)
	d.Format = strings.TrimSpace(d.Format)
	d.FileURL = strings.TrimSpace(d.FileURL)
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

func (d *CreateDTO) ToEntity() Document {
	return New(d.ProjectID, d.Code, d.Title, d.Format, d.Pages, d.FileURL)
}

// UpdateDTO edits descriptive metadata. The revision counter is out of
// reach on purpose; only Repository.AdvanceRevision may move it.
type UpdateDTO struct {
	Title   string `json:"title" validate:"required"`
	Format  string `json:"format"`
	Pages   int    `json:"pages" validate:"gte=0"`
	FileURL string `json:"file_url"`
	Status  string `json:"status" validate:"required,oneof=PLANNED IN_REVIEW RELEASED"`
}

func (d *UpdateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Format = strings.TrimSpace(d.Format)
	d.FileURL = strings.TrimSpace(d.FileURL)
	d.Status = strings.ToUpper(strings.TrimSpace(d.Status))
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	fieldErrs := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), func(string) string { return "" })
	return serrors.MessageMap(fieldErrs), false
}

func (d *UpdateDTO) Apply(existing Document) Document {
	return Hydrate(
		existing.ID(),
		existing.ProjectID(),
		existing.Code(),
		d.Title,
		existing.Revision(),
		d.Format,
		d.Pages,
		d.FileURL,
		Status(d.Status),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
}
