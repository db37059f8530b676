package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

var (
	errMissingVendorDetail = errors.New("owner_name and address are required for external vendor registration")
	errMentorForVendor     = errors.New("mentor_id is only valid for student registration")
)

type RegisterBusinessRequest struct {
	Type        string   `json:"type"`
	ProductName string   `json:"product_name"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	TeamRoster  []string `json:"team_roster,omitempty"`
	MentorID    *uint    `json:"mentor_id,omitempty"`
	OwnerName   string   `json:"owner_name,omitempty"`
	Address     string   `json:"address,omitempty"`
}

func (req *RegisterBusinessRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Type, validation.Required,
			validation.In(domain.BusinessStudent, domain.BusinessVendor)),
		validation.Field(&req.ProductName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Phone, validation.Required),
	)
	if err != nil {
		return err
	}

	if req.Type == domain.BusinessVendor {
		if req.OwnerName == "" || req.Address == "" {
			return errMissingVendorDetail
		}
		if req.MentorID != nil {
			return errMentorForVendor
		}
	}

	return nil
}

type RejectBusinessRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectBusinessRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Length(0, 500)),
	)
}

type AssignBoothRequest struct {
	BoothNumber string `json:"booth_number"`
}

func (req *AssignBoothRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BoothNumber, validation.Required, validation.Length(1, 20)),
	)
}
