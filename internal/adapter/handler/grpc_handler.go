package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/canteen/internal/adapter/handler/rpc"
	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/core/images"
	"github.com/rl1809/canteen/internal/core/service"
)

type GRPCHandler struct {
	rpc.UnimplementedCanteenServiceServer
	menuService    *service.MenuService
	orderService   *service.OrderService
	accountService *service.AccountService
	images         *images.Resolver
}

func NewGRPCHandler(
	menuService *service.MenuService,
	orderService *service.OrderService,
	accountService *service.AccountService,
	resolver *images.Resolver,
) *GRPCHandler {
	return &GRPCHandler{
		menuService:    menuService,
		orderService:   orderService,
		accountService: accountService,
		images:         resolver,
	}
}

func (h *GRPCHandler) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	session, err := h.accountService.Login(ctx, domain.AccountKind(req.Kind), req.Mobile, req.Password)
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpc.LoginResponse{Token: session.Token, Kind: string(session.Kind), ExpiresAt: session.ExpiresAt}, nil
}

func (h *GRPCHandler) ListMenu(ctx context.Context, req *rpc.ListMenuRequest) (*rpc.ListMenuResponse, error) {
	category := domain.Category(req.Category)
	if category != "" && !category.Valid() {
		return nil, status.Error(codes.InvalidArgument, "unknown category")
	}

	items := h.menuService.List(ctx, service.ListFilter{OrderableOnly: req.OrderableOnly, Category: category})
	resp := &rpc.ListMenuResponse{Items: make([]rpc.MenuItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, rpc.MenuItem{
			ID:                item.ID,
			Name:              item.Name,
			Price:             item.Price.String(),
			AvailabilityCount: item.AvailabilityCount,
			IsAvailable:       item.IsAvailable,
			Category:          string(item.Category),
			ImageAddress:      h.images.Resolve(item.ImageID, item.ImageURL),
			Orderable:         item.Orderable(),
		})
	}
	return resp, nil
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *rpc.PlaceOrderRequest) (*rpc.Order, error) {
	session, err := h.authorize(ctx, domain.AccountKindCustomer)
	if err != nil {
		return nil, err
	}
	if req.RequestID == "" || req.ItemID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing required fields")
	}

	order, err := h.orderService.PlaceOrder(ctx, session.AccountID, req.RequestID, req.ItemID)
	if err != nil {
		return nil, grpcError(err)
	}
	return toRPCOrder(order), nil
}

func (h *GRPCHandler) GetOrder(ctx context.Context, req *rpc.GetOrderRequest) (*rpc.Order, error) {
	session, err := h.authorize(ctx, domain.AccountKindCustomer, domain.AccountKindAdmin)
	if err != nil {
		return nil, err
	}

	order, err := h.orderService.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, grpcError(err)
	}
	if session.Kind == domain.AccountKindCustomer && order.CustomerID != session.AccountID {
		return nil, grpcError(service.ErrOrderNotFound)
	}
	return toRPCOrder(order), nil
}

func (h *GRPCHandler) VerifyToken(ctx context.Context, req *rpc.VerifyTokenRequest) (*rpc.Order, error) {
	session, err := h.authorize(ctx, domain.AccountKindAdmin)
	if err != nil {
		return nil, err
	}

	order, err := h.orderService.VerifyToken(ctx, session.AccountID, req.Token)
	if err != nil {
		return nil, grpcError(err)
	}
	return toRPCOrder(order), nil
}

func (h *GRPCHandler) authorize(ctx context.Context, kinds ...domain.AccountKind) (domain.Session, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			token = strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
		}
	}

	session, err := h.accountService.Authorize(ctx, token, kinds...)
	if err != nil {
		return domain.Session{}, grpcError(err)
	}
	return session, nil
}

// UnaryLogger logs every call with its status code.
func UnaryLogger(logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Infow("grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

func grpcError(err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return status.Error(codes.InvalidArgument, verr.Error())
	}

	switch statusFor(err) {
	case http.StatusBadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	case http.StatusUnauthorized:
		return status.Error(codes.Unauthenticated, err.Error())
	case http.StatusForbidden:
		return status.Error(codes.PermissionDenied, err.Error())
	case http.StatusNotFound:
		return status.Error(codes.NotFound, err.Error())
	case http.StatusConflict:
		return status.Error(codes.AlreadyExists, err.Error())
	case http.StatusGone:
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	if errors.Is(err, service.ErrTokensExhausted) {
		return status.Error(codes.ResourceExhausted, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func toRPCOrder(order domain.Order) *rpc.Order {
	return &rpc.Order{
		ID:          order.ID,
		ItemID:      order.ItemID,
		ItemName:    order.ItemName,
		Price:       order.Price.String(),
		Token:       order.Token,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		DeliveredAt: order.DeliveredAt,
	}
}
