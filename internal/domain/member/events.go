package member

import "github.com/google/uuid"

// OTPRequested is recorded when a member asks for a login code.
type OTPRequested struct {
	MemberID    uuid.UUID `json:"member_id"`
	PhoneNumber string    `json:"phone_number"`
}

func (OTPRequested) EventName() string { return "member.otp_requested" }
