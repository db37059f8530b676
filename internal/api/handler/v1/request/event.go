package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

var errRegistrationWindowInverted = errors.New("registration_close must be after registration_open")

type CreateEventRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	Quota             int       `json:"quota"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.RegistrationOpen, validation.Required),
		validation.Field(&req.RegistrationClose, validation.Required),
		validation.Field(&req.Quota, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if !req.RegistrationClose.After(req.RegistrationOpen) {
		return errRegistrationWindowInverted
	}

	return nil
}

type UpdateEventRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	Quota             int       `json:"quota"`
	Locked            bool      `json:"locked"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

func (req *UpdateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Quota, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if !req.RegistrationClose.After(req.RegistrationOpen) {
		return errRegistrationWindowInverted
	}

	return nil
}

type ChangeEventStatusRequest struct {
	Status string `json:"status"`
}

func (req *ChangeEventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required,
			validation.In(domain.EventOpen, domain.EventOngoing, domain.EventFinished)),
	)
}

type AddSponsorRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

func (req *AddSponsorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.LogoURL, is.URL),
	)
}
