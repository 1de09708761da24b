package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "canteen.v1.CanteenService"

	loginMethod       = "/" + ServiceName + "/Login"
	listMenuMethod    = "/" + ServiceName + "/ListMenu"
	placeOrderMethod  = "/" + ServiceName + "/PlaceOrder"
	getOrderMethod    = "/" + ServiceName + "/GetOrder"
	verifyTokenMethod = "/" + ServiceName + "/VerifyToken"
)

type CanteenServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	ListMenu(context.Context, *ListMenuRequest) (*ListMenuResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*Order, error)
	GetOrder(context.Context, *GetOrderRequest) (*Order, error)
	VerifyToken(context.Context, *VerifyTokenRequest) (*Order, error)
}

// UnimplementedCanteenServiceServer can be embedded for forward compatibility.
type UnimplementedCanteenServiceServer struct{}

func (UnimplementedCanteenServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedCanteenServiceServer) ListMenu(context.Context, *ListMenuRequest) (*ListMenuResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMenu not implemented")
}

func (UnimplementedCanteenServiceServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceOrder not implemented")
}

func (UnimplementedCanteenServiceServer) GetOrder(context.Context, *GetOrderRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrder not implemented")
}

func (UnimplementedCanteenServiceServer) VerifyToken(context.Context, *VerifyTokenRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyToken not implemented")
}

func RegisterCanteenServiceServer(s grpc.ServiceRegistrar, srv CanteenServiceServer) {
	s.RegisterService(&CanteenServiceDesc, srv)
}

// unary adapts a typed method into a grpc.MethodDesc handler.
func unary[Req any, Resp any](method string, call func(CanteenServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CanteenServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CanteenServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var CanteenServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CanteenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unary(loginMethod, CanteenServiceServer.Login)},
		{MethodName: "ListMenu", Handler: unary(listMenuMethod, CanteenServiceServer.ListMenu)},
		{MethodName: "PlaceOrder", Handler: unary(placeOrderMethod, CanteenServiceServer.PlaceOrder)},
		{MethodName: "GetOrder", Handler: unary(getOrderMethod, CanteenServiceServer.GetOrder)},
		{MethodName: "VerifyToken", Handler: unary(verifyTokenMethod, CanteenServiceServer.VerifyToken)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "canteen/v1/canteen.proto",
}

type CanteenServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCanteenServiceClient(cc grpc.ClientConnInterface) *CanteenServiceClient {
	return &CanteenServiceClient{cc: cc}
}

func (c *CanteenServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, loginMethod, in, opts)
}

func (c *CanteenServiceClient) ListMenu(ctx context.Context, in *ListMenuRequest, opts ...grpc.CallOption) (*ListMenuResponse, error) {
	return invoke[ListMenuResponse](ctx, c.cc, listMenuMethod, in, opts)
}

func (c *CanteenServiceClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, placeOrderMethod, in, opts)
}

func (c *CanteenServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, getOrderMethod, in, opts)
}

func (c *CanteenServiceClient) VerifyToken(ctx context.Context, in *VerifyTokenRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, verifyTokenMethod, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
