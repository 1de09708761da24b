package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/core/images"
	"github.com/rl1809/canteen/internal/core/service"
)

// Pinger is a backend the health endpoint reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPHandler struct {
	menuService    *service.MenuService
	orderService   *service.OrderService
	accountService *service.AccountService
	images         *images.Resolver
	backends       map[string]Pinger
	logger         *zap.SugaredLogger
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewHTTPHandler(
	menuService *service.MenuService,
	orderService *service.OrderService,
	accountService *service.AccountService,
	resolver *images.Resolver,
	backends map[string]Pinger,
	logger *zap.SugaredLogger,
) *HTTPHandler {
	return &HTTPHandler{
		menuService:    menuService,
		orderService:   orderService,
		accountService: accountService,
		images:         resolver,
		backends:       backends,
		logger:         logger,
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/{kind}/register", h.Register)
			r.Post("/{kind}/login", h.Login)
			r.With(h.authenticate()).Post("/logout", h.Logout)
		})

		r.Get("/menu", h.ListMenu)
		r.Get("/menu/{id}", h.GetMenuItem)

		r.Route("/orders", func(r chi.Router) {
			r.With(h.authenticate(domain.AccountKindCustomer)).Post("/", h.PlaceOrder)
			r.With(h.authenticate(domain.AccountKindCustomer, domain.AccountKindAdmin)).Get("/{id}", h.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.authenticate(domain.AccountKindAdmin))
			r.Post("/items", h.CreateItem)
			r.Put("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.DeleteItem)
			r.Patch("/items/{id}/availability", h.ToggleAvailability)
			r.Patch("/items/{id}/count", h.AdjustCount)
			r.Post("/tokens/verify", h.VerifyToken)
		})
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	backends := make(map[string]string, len(h.backends))
	for name, backend := range h.backends {
		if err := backend.Ping(ctx); err != nil {
			backends[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		backends[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":         overall,
		"backends":       backends,
		"pending_orders": h.orderService.PendingOrders(),
	})
}

func (h *HTTPHandler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Infow("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as internal.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: service.ErrValidation.Error(), Fields: verr.Fields})
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, service.ErrTokensExhausted) {
		h.logger.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		message = "internal error"
	}

	writeJSON(w, status, ErrorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnknownAccountKind),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidMobile),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrItemUnavailable):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
