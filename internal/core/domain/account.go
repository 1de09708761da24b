package domain

import "time"

type AccountKind string

const (
	AccountKindAdmin    AccountKind = "admin"
	AccountKindCustomer AccountKind = "customer"
)

func (k AccountKind) Valid() bool {
	return k == AccountKindAdmin || k == AccountKindCustomer
}

type AccountRole string

const (
	AccountRoleStudent AccountRole = "student"
	AccountRoleStaff   AccountRole = "staff"
)

type Account struct {
	ID           string
	Kind         AccountKind
	Handle       string
	Mobile       string
	Name         string
	Role         AccountRole
	Year         string // students only
	PasswordHash []byte
	CreatedAt    time.Time
}

type Session struct {
	Token     string      `json:"token"`
	AccountID string      `json:"account_id"`
	Kind      AccountKind `json:"kind"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
