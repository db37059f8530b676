package domain

import "time"

const (
	BusinessStudent = "MAHASISWA"
	BusinessVendor  = "VENDOR_EKSTERNAL"
)

const (
	BusinessPending  = "PENDING"
	BusinessApproved = "APPROVED"
	BusinessRejected = "REJECTED"
)

// Business is a marketplace registration. The shared core is the same for
// both types; the type-specific payload lives in exactly one of
// StudentDetail or VendorDetail.
type Business struct {
	ID            uint           `json:"id"`
	EventID       uint           `json:"event_id"`
	OwnerID       uint           `json:"owner_id"`
	Owner         *User          `json:"owner,omitempty"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	ProductName   string         `json:"product_name"`
	Description   string         `json:"description"`
	Phone         string         `json:"phone"`
	BoothNumber   *string        `json:"booth_number,omitempty"`
	RejectReason  string         `json:"reject_reason,omitempty"`
	StudentDetail *StudentDetail `json:"student_detail,omitempty"`
	VendorDetail  *VendorDetail  `json:"vendor_detail,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type StudentDetail struct {
	MentorID   *uint    `json:"mentor_id,omitempty"`
	Mentor     *User    `json:"mentor,omitempty"`
	TeamRoster []string `json:"team_roster"`
}

type VendorDetail struct {
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
}

func (b Business) IsStudent() bool {
	return b.Type == BusinessStudent
}
