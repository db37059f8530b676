package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCategoryRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	AssessorIDs []uint             `json:"assessor_ids"`
	Criteria    []CriterionRequest `json:"criteria"`
}

type CriterionRequest struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

func (req *CreateCategoryRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.AssessorIDs, validation.Required),
		validation.Field(&req.Criteria, validation.Required),
	)
	if err != nil {
		return err
	}

	for _, c := range req.Criteria {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (req CriterionRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Weight, validation.Min(0), validation.Max(100)),
	)
}

type SubmitScoreRequest struct {
	BusinessID  uint `json:"business_id"`
	CategoryID  uint `json:"category_id"`
	CriterionID uint `json:"criterion_id"`
	Value       int  `json:"value"`
}

func (req *SubmitScoreRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BusinessID, validation.Required),
		validation.Field(&req.CategoryID, validation.Required),
		validation.Field(&req.CriterionID, validation.Required),
		validation.Field(&req.Value, validation.Min(0), validation.Max(100)),
	)
}

type SetWinnerRequest struct {
	BusinessID uint `json:"business_id"`
}

func (req *SetWinnerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BusinessID, validation.Required),
	)
}
