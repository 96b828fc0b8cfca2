package member

import (
	"strings"
	"time"

	"librarium/internal/domain/message"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/phone"

	"github.com/google/uuid"
)

type MembershipType string

const (
	MembershipRegular MembershipType = "REGULAR"
	MembershipPremium MembershipType = "PREMIUM"
)

// Member is a mutable aggregate: balance and membership changes go through
// conditional version writes, like Book.
type Member struct {
	id               uuid.UUID
	firstName        string
	lastName         string
	phoneNumber      string
	membership       MembershipType
	membershipExpiry *time.Time
	balance          int64
	version          int32

	events []message.Event
}

func NewMember(id uuid.UUID, firstName, lastName, phoneNumber string) (*Member, error) {
	if !phone.IsValidMobile(phoneNumber) {
		return nil, errs.ErrInvalidPhoneNumber
	}

	return &Member{
		id:          id,
		firstName:   strings.TrimSpace(firstName),
		lastName:    strings.TrimSpace(lastName),
		phoneNumber: phoneNumber,
		membership:  MembershipRegular,
		balance:     0,
		version:     1,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	firstName, lastName, phoneNumber string,
	membership MembershipType,
	membershipExpiry *time.Time,
	balance int64,
	version int32,
) *Member {
	return &Member{
		id:               id,
		firstName:        firstName,
		lastName:         lastName,
		phoneNumber:      phoneNumber,
		membership:       membership,
		membershipExpiry: membershipExpiry,
		balance:          balance,
		version:          version,
	}
}

func (m *Member) AddToBalance(amount int64) error {
	if amount < 0 {
		return errs.ErrNegativeAmount
	}
	m.balance += amount
	return nil
}

// UpgradeToPremium deducts the premium cost and sets the membership expiry
// to now + period.
func (m *Member) UpgradeToPremium(now time.Time, cost int64, periodMonths int) error {
	if m.membership == MembershipPremium {
		return errs.ErrAlreadyPremium
	}
	if m.balance < cost {
		return errs.ErrInsufficientBalance
	}
	m.balance -= cost
	expiry := now.AddDate(0, periodMonths, 0)
	m.membershipExpiry = &expiry
	m.membership = MembershipPremium
	return nil
}

// RequestLoginCode records an OTPRequested event; the bus cascades it to
// the delivery and publish handlers.
func (m *Member) RequestLoginCode() {
	m.record(OTPRequested{MemberID: m.id, PhoneNumber: m.phoneNumber})
}

func (m *Member) IsPremium() bool {
	return m.membership == MembershipPremium
}

// AdvanceVersion reflects a successful conditional write back onto the
// in-memory aggregate. Only repositories call this.
func (m *Member) AdvanceVersion() {
	m.version++
}

func (m *Member) record(e message.Event) {
	m.events = append(m.events, e)
}

// PopEvents drains recorded events in FIFO order.
func (m *Member) PopEvents() []message.Event {
	evts := m.events
	m.events = nil
	return evts
}

func (m *Member) ID() uuid.UUID                { return m.id }
func (m *Member) FirstName() string            { return m.firstName }
func (m *Member) LastName() string             { return m.lastName }
func (m *Member) PhoneNumber() string          { return m.phoneNumber }
func (m *Member) Membership() MembershipType   { return m.membership }
func (m *Member) MembershipExpiry() *time.Time { return m.membershipExpiry }
func (m *Member) Balance() int64               { return m.balance }
func (m *Member) Version() int32               { return m.version }
