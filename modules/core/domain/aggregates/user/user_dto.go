package user

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/planora/planora/pkg/constants"
	"github.com/planora/planora/pkg/serrors"
)

type CreateDTO struct {
	Email      string `json:"email" validate:"required,email"`
	ExternalID string `json:"externalId" validate:"required"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.ExternalID = strings.TrimSpace(d.ExternalID)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() User {
	return New(d.Email, d.ExternalID, d.FirstName, d.LastName)
}

type UpdateDTO struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	return validateStruct(d)
}

func validateStruct(v any) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return nil, true
	}

	validationErrors := make(serrors.ValidationErrors)
	for _, err := range errs.(validator.ValidationErrors) {
		switch err.Tag() {
		case "required":
			validationErrors[err.Field()] = serrors.NewFieldRequiredError(err.Field())
		case "email":
			validationErrors[err.Field()] = serrors.NewValidation("FIELD_INVALID_EMAIL", err.Field()+" must be a valid email address")
		default:
			validationErrors[err.Field()] = serrors.NewValidation("FIELD_INVALID", err.Field()+" is invalid")
		}
	}
	return validationErrors, false
}
