package domain

import "time"

const (
	EventDraft    = "DRAFT"
	EventOpen     = "TERBUKA"
	EventOngoing  = "BERLANGSUNG"
	EventFinished = "SELESAI"
)

type Event struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Status            string    `json:"status"`
	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	Quota             int       `json:"quota"`
	Locked            bool      `json:"locked"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Sponsors          []Sponsor `json:"sponsors,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Sponsor struct {
	ID      uint   `json:"id"`
	EventID uint   `json:"event_id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// NextStatus reports whether to is a legal transition from the current
// status. The lifecycle is strictly forward, one step at a time.
func (e Event) NextStatus(to string) bool {
	switch e.Status {
	case EventDraft:
		return to == EventOpen
	case EventOpen:
		return to == EventOngoing
	case EventOngoing:
		return to == EventFinished
	default:
		return false
	}
}

// RegistrationWindowOpen reports whether now falls inside the event's
// registration window.
func (e Event) RegistrationWindowOpen(now time.Time) bool {
	return !now.Before(e.RegistrationOpen) && !now.After(e.RegistrationClose)
}
