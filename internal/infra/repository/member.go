package repository

import (
	"context"
	"errors"
	"time"

	"librarium/internal/domain/member"
	"librarium/internal/infra"
	"librarium/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MemberRepository struct {
	db   db.DBTX
	seen map[uuid.UUID]*member.Member
}

func NewMemberRepository(dbtx db.DBTX) *MemberRepository {
	return &MemberRepository{
		db:   dbtx,
		seen: make(map[uuid.UUID]*member.Member),
	}
}

const findMemberByID = `
SELECT id, first_name, last_name, phone_number, membership, membership_expiry, balance, version
FROM members
WHERE id = $1
`

func (r *MemberRepository) Get(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	if m, ok := r.seen[id]; ok {
		return m, nil
	}

	row := r.db.QueryRow(ctx, findMemberByID, id)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}

	r.track(m)
	return m, nil
}

const findMemberByPhone = `
SELECT id, first_name, last_name, phone_number, membership, membership_expiry, balance, version
FROM members
WHERE phone_number = $1
`

func (r *MemberRepository) GetByPhone(ctx context.Context, phoneNumber string) (*member.Member, error) {
	for _, m := range r.seen {
		if m.PhoneNumber() == phoneNumber {
			return m, nil
		}
	}

	row := r.db.QueryRow(ctx, findMemberByPhone, phoneNumber)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("member not found by phone", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member by phone", err)
	}

	r.track(m)
	return m, nil
}

const insertMember = `
INSERT INTO members (id, first_name, last_name, phone_number, membership, membership_expiry, balance, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *MemberRepository) Add(ctx context.Context, m *member.Member) error {
	_, err := r.db.Exec(ctx, insertMember,
		m.ID(), m.FirstName(), m.LastName(), m.PhoneNumber(),
		string(m.Membership()), m.MembershipExpiry(), m.Balance(), m.Version(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("phone number already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert member", err)
	}

	r.track(m)
	return nil
}

const updateMember = `
UPDATE members
SET membership = $3, membership_expiry = $4, balance = $5, version = version + 1
WHERE id = $1 AND version = $2
`

func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	tag, err := r.db.Exec(ctx, updateMember,
		m.ID(), m.Version(),
		string(m.Membership()), m.MembershipExpiry(), m.Balance(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update member", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, m.ID(), "update member")
	}

	m.AdvanceVersion()
	r.track(m)
	return nil
}

func (r *MemberRepository) Seen() []*member.Member {
	members := make([]*member.Member, 0, len(r.seen))
	for _, m := range r.seen {
		members = append(members, m)
	}
	return members
}

func (r *MemberRepository) track(m *member.Member) {
	if _, ok := r.seen[m.ID()]; ok {
		return
	}
	r.seen[m.ID()] = m
}

func (r *MemberRepository) conditionalMiss(ctx context.Context, id uuid.UUID, op string) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr(op+": failed to probe row", err)
	}
	if exists {
		return infra.WrapRepoErr(op+": version conflict", nil, infra.KindStaleWrite)
	}
	return infra.WrapRepoErr(op+": member not found", nil, infra.KindNotFound)
}

func scanMember(row pgx.Row) (*member.Member, error) {
	var (
		id          uuid.UUID
		firstName   string
		lastName    string
		phoneNumber string
		membership  string
		expiry      *time.Time
		balance     int64
		version     int32
	)
	if err := row.Scan(&id, &firstName, &lastName, &phoneNumber, &membership, &expiry, &balance, &version); err != nil {
		return nil, err
	}
	return member.Reconstruct(id, firstName, lastName, phoneNumber, member.MembershipType(membership), expiry, balance, version), nil
}
