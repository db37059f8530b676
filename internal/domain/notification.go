package domain

import "time"

const (
	NotifAssessorAssigned = "ASSESSOR_ASSIGNED"
	NotifBusinessStatus   = "BUSINESS_STATUS"
	NotifStageSubmitted   = "STAGE_SUBMITTED"
	NotifStageValidated   = "STAGE_VALIDATED"
	NotifWinner           = "WINNER"
)

type Notification struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
