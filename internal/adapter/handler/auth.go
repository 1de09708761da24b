package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/core/service"
)

type sessionKey struct{}

type RegisterHTTPRequest struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	Year            string `json:"year,omitempty"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginHTTPRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	session, err := h.accountService.Register(r.Context(), service.RegisterRequest{
		Kind:            domain.AccountKind(chi.URLParam(r, "kind")),
		Name:            req.Name,
		Role:            domain.AccountRole(req.Role),
		Year:            req.Year,
		Mobile:          req.Mobile,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	kind := domain.AccountKind(chi.URLParam(r, "kind"))
	session, err := h.accountService.Login(r.Context(), kind, req.Mobile, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.Logout(r.Context(), sessionFrom(r.Context()).Token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authenticate requires a bearer session of one of kinds (any kind when empty).
func (h *HTTPHandler) authenticate(kinds ...domain.AccountKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := h.accountService.Authorize(r.Context(), bearerToken(r), kinds...)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionFrom(ctx context.Context) domain.Session {
	session, _ := ctx.Value(sessionKey{}).(domain.Session)
	return session
}
