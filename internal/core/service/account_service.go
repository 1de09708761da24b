package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

const (
	mobileLen      = 10
	minPasswordLen = 6
)

type RegisterRequest struct {
	Kind            domain.AccountKind
	Name            string
	Role            domain.AccountRole
	Year            string
	Mobile          string
	Password        string
	ConfirmPassword string
}

type AccountService struct {
	accounts   port.AccountRepository
	sessions   port.CacheRepository
	domain     string
	sessionTTL time.Duration
	hashCost   int
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewAccountService(
	accounts port.AccountRepository,
	sessions port.CacheRepository,
	handleDomain string,
	sessionTTL time.Duration,
	logger *zap.SugaredLogger,
) *AccountService {
	return &AccountService{
		accounts:   accounts,
		sessions:   sessions,
		domain:     handleDomain,
		sessionTTL: sessionTTL,
		hashCost:   bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle synthesizes the account handle used with the identity store.
func (s *AccountService) Handle(mobile string) string {
	return mobile + "@" + s.domain
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (domain.Session, error) {
	if !req.Kind.Valid() {
		return domain.Session{}, ErrUnknownAccountKind
	}
	if req.Password != req.ConfirmPassword {
		return domain.Session{}, ErrPasswordMismatch
	}
	if req.Name == "" || (req.Role != domain.AccountRoleStudent && req.Role != domain.AccountRoleStaff) {
		return domain.Session{}, ErrMissingFields
	}
	if req.Role == domain.AccountRoleStudent && req.Year == "" {
		return domain.Session{}, ErrMissingFields
	}
	if !validMobile(req.Mobile) {
		return domain.Session{}, ErrInvalidMobile
	}
	if len(req.Password) < minPasswordLen {
		return domain.Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return domain.Session{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Kind:         req.Kind,
		Handle:       s.Handle(req.Mobile),
		Mobile:       req.Mobile,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if req.Role == domain.AccountRoleStudent {
		account.Year = req.Year
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, port.ErrConflict) {
			return domain.Session{}, ErrAccountExists
		}
		return domain.Session{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.Infow("account registered", "account_id", account.ID, "kind", account.Kind)

	return s.openSession(ctx, account)
}

func (s *AccountService) Login(ctx context.Context, kind domain.AccountKind, mobile, password string) (domain.Session, error) {
	if !kind.Valid() {
		return domain.Session{}, ErrUnknownAccountKind
	}
	if !validMobile(mobile) {
		return domain.Session{}, ErrInvalidMobile
	}

	account, err := s.accounts.GetAccountByHandle(ctx, s.Handle(mobile))
	if err != nil {
		return domain.Session{}, fmt.Errorf("get account: %w", err)
	}
	if account == nil || account.Kind != kind {
		return domain.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	return s.openSession(ctx, *account)
}

// Authorize resolves a session token. With kinds given, the session must be
// of one of them.
func (s *AccountService) Authorize(ctx context.Context, token string, kinds ...domain.AccountKind) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.Expired(s.now()) {
		return domain.Session{}, ErrUnauthorized
	}

	if len(kinds) == 0 {
		return *session, nil
	}
	for _, kind := range kinds {
		if session.Kind == kind {
			return *session, nil
		}
	}
	return domain.Session{}, ErrForbidden
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AccountService) openSession(ctx context.Context, account domain.Account) (domain.Session, error) {
	session := domain.Session{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		Kind:      account.Kind,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func validMobile(mobile string) bool {
	if len(mobile) != mobileLen {
		return false
	}
	for _, c := range mobile {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
