package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateUmkmRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *CreateUmkmRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type ValidateStageRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note"`
}

func (req *ValidateStageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Note, validation.Length(0, 500)),
	)
}
