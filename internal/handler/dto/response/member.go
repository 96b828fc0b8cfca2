package response

import (
	"time"

	"librarium/internal/domain/member"

	"github.com/google/uuid"
)

type MemberResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	PhoneNumber      string     `json:"phoneNumber"`
	Membership       string     `json:"membership"`
	MembershipExpiry *time.Time `json:"membershipExpiry,omitempty"`
	Balance          int64      `json:"balance"`
}

func FromMember(m *member.Member) *MemberResponse {
	return &MemberResponse{
		ID:               m.ID(),
		FirstName:        m.FirstName(),
		LastName:         m.LastName(),
		PhoneNumber:      m.PhoneNumber(),
		Membership:       string(m.Membership()),
		MembershipExpiry: m.MembershipExpiry(),
		Balance:          m.Balance(),
	}
}
