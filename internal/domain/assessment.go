package domain

import "time"

type Category struct {
	ID          uint        `json:"id"`
	EventID     uint        `json:"event_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Assessors   []User      `json:"assessors,omitempty"`
	Criteria    []Criterion `json:"criteria,omitempty"`
	WinnerID    *uint       `json:"winner_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Criterion struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	Weight     int    `json:"weight"`
}

// Score is logically keyed by (business, category, criterion). AssessorID
// records whoever wrote the row last.
type Score struct {
	ID          uint      `json:"id"`
	BusinessID  uint      `json:"business_id"`
	CategoryID  uint      `json:"category_id"`
	CriterionID uint      `json:"criterion_id"`
	AssessorID  uint      `json:"assessor_id"`
	Value       int       `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RankingEntry is one row of a category ranking, ordered by Total descending.
type RankingEntry struct {
	Business Business         `json:"business"`
	Details  []CriterionScore `json:"details"`
	Total    float64          `json:"total"`
}

type CriterionScore struct {
	CriterionID uint    `json:"criterion_id"`
	Name        string  `json:"name"`
	Weight      int     `json:"weight"`
	Value       int     `json:"value"`
	Weighted    float64 `json:"weighted"`
}

// Outcomes of the winner batch pass, one per category.
const (
	WinnerAlreadySet     = "already_set"
	WinnerNoParticipants = "no_participants"
	WinnerNoScores       = "no_scores"
	WinnerTie            = "tie"
	WinnerSet            = "winner_set"
)

type WinnerResult struct {
	CategoryID   uint       `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Status       string     `json:"status"`
	Winner       *Business  `json:"winner,omitempty"`
	TiedWith     []Business `json:"tied_with,omitempty"`
}
