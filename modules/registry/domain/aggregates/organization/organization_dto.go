package organization

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adi-digital/docscriptum/pkg/constants"
	"github.com/adi-digital/docscriptum/pkg/serrors"
)

type CreateDTO struct {
	Name         string `json:"name" validate:"required"`
	OrgType      string `json:"org_type" validate:"required,oneof=CLIENT SUPPLIER INTERNAL"`
	CNPJ         string `json:"cnpj"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Segment      string `json:"segment"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.OrgType = strings.ToUpper(strings.TrimSpace(d.OrgType))
	d.CNPJ = strings.TrimSpace(d.CNPJ)
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
	d.Segment = strings.TrimSpace(d.Segment)
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

func (d *CreateDTO) ToEntity() Organization {
	return New(d.Name, Type(d.OrgType), d.CNPJ, d.ContactEmail, d.Segment)
}

type UpdateDTO struct {
	Name         string `json:"name" validate:"required"`
	CNPJ         string `json:"cnpj"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Segment      string `json:"segment"`
	Status       string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.CNPJ = strings.TrimSpace(d.CNPJ)
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
	d.Segment = strings.TrimSpace(d.Segment)
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

// Apply keeps identity fields (id, org type, timestamps) from the
// existing record and overlays the mutable ones.
func (d *UpdateDTO) Apply(existing Organization) Organization {
	return Hydrate(
		existing.ID(),
		d.Name,
		existing.OrgType(),
		d.CNPJ,
		d.ContactEmail,
		d.Segment,
		Status(d.Status),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
}
