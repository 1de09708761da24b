package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/canteen/internal/core/domain"
)

func newTestAccountService() (*AccountService, *mockAccountRepo, *mockCacheRepo) {
	accounts := newMockAccountRepo()
	cache := newMockCacheRepo()
	svc := NewAccountService(accounts, cache, "achariya.app", time.Hour, zap.NewNop().Sugar())
	svc.hashCost = bcrypt.MinCost
	return svc, accounts, cache
}

func studentRequest() RegisterRequest {
	return RegisterRequest{
		Kind:            domain.AccountKindCustomer,
		Name:            "Asha",
		Role:            domain.AccountRoleStudent,
		Year:            "2nd",
		Mobile:          "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, accounts, _ := newTestAccountService()

	session, err := svc.Register(context.Background(), studentRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.Kind != domain.AccountKindCustomer || session.Token == "" {
		t.Errorf("unexpected session: %+v", session)
	}

	account, ok := accounts.byHandle["9876543210@achariya.app"]
	if !ok {
		t.Fatal("expected account stored under synthesized handle")
	}
	if account.Year != "2nd" || string(account.PasswordHash) == "secret1" {
		t.Errorf("unexpected account: %+v", account)
	}
}

func TestRegister_StaffDropsYear(t *testing.T) {
	svc, accounts, _ := newTestAccountService()
	req := studentRequest()
	req.Role = domain.AccountRoleStaff

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accounts.byHandle["9876543210@achariya.app"].Year != "" {
		t.Error("expected year to be dropped for staff")
	}
}

func TestRegister_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		want   error
	}{
		{"unknown kind", func(r *RegisterRequest) { r.Kind = "chef" }, ErrUnknownAccountKind},
		{"password mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, ErrMissingFields},
		{"missing role", func(r *RegisterRequest) { r.Role = "" }, ErrMissingFields},
		{"student without year", func(r *RegisterRequest) { r.Year = "" }, ErrMissingFields},
		{"short mobile", func(r *RegisterRequest) { r.Mobile = "98765" }, ErrInvalidMobile},
		{"weak password", func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAccountService()
			req := studentRequest()
			tt.mutate(&req)

			if _, err := svc.Register(context.Background(), req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newTestAccountService()

	if _, err := svc.Register(context.Background(), studentRequest()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	req := studentRequest()
	req.Kind = domain.AccountKindAdmin
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, studentRequest()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Login(ctx, domain.AccountKindCustomer, "9876543210", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Authorize(ctx, session.Token, domain.AccountKindCustomer); err != nil {
		t.Errorf("expected customer session to authorize, got %v", err)
	}
	if _, err := svc.Authorize(ctx, session.Token, domain.AccountKindAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for admin-only access, got %v", err)
	}

	if _, err := svc.Login(ctx, domain.AccountKindCustomer, "9876543210", "wrong!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, domain.AccountKindAdmin, "9876543210", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong kind, got %v", err)
	}
	if _, err := svc.Login(ctx, domain.AccountKindCustomer, "1111111111", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

func TestAuthorize_ExpiredAndLoggedOut(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	session, err := svc.Register(ctx, studentRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Authorize(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authorize(ctx, session.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for expired session, got %v", err)
	}
	svc.now = time.Now

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Authorize(ctx, session.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}
