package project

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adi-digital/docscriptum/pkg/constants"
	"github.com/adi-digital/docscriptum/pkg/serrors"
)

type CreateDTO struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	ClientID int64  `json:"client_id" validate:"required,gt=0"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
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

func (d *CreateDTO) ToEntity() Project {
	return New(d.Code, d.Name, d.ClientID)
}

type UpdateDTO struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"required,oneof=ACTIVE ON_HOLD ARCHIVED"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
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

// Apply keeps the project code and client binding; only the display name
// and lifecycle status are editable after creation.
func (d *UpdateDTO) Apply(existing Project) Project {
	return Hydrate(
		existing.ID(),
		existing.Code(),
		d.Name,
		existing.ClientID(),
		Status(d.Status),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
}
