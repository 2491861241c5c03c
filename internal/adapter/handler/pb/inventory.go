// Package pb describes the inventory gRPC service by hand. Requests and responses
// are protobuf well-known types, so no generated code is involved.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "bookstore.inventory.v1.InventoryService"

const (
	LookupMethod   = "/" + ServiceName + "/Lookup"
	ReserveMethod  = "/" + ServiceName + "/Reserve"
	AdjustMethod   = "/" + ServiceName + "/Adjust"
	SetPriceMethod = "/" + ServiceName + "/SetPrice"
)

type InventoryServiceServer interface {
	// Lookup takes an item id and answers with the item as a struct
	Lookup(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	// Reserve takes an item id and answers with the remaining quantity
	Reserve(context.Context, *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error)
	// Adjust takes {id, delta} and answers with the new quantity
	Adjust(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	// SetPrice takes {id, price}
	SetPrice(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) Lookup(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Lookup not implemented")
}

func (UnimplementedInventoryServiceServer) Reserve(context.Context, *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Reserve not implemented")
}

func (UnimplementedInventoryServiceServer) Adjust(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Adjust not implemented")
}

func (UnimplementedInventoryServiceServer) SetPrice(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPrice not implemented")
}

func unaryHandler[Req, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(InventoryServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Lookup",
			Handler: unaryHandler(LookupMethod, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) },
				InventoryServiceServer.Lookup),
		},
		{
			MethodName: "Reserve",
			Handler: unaryHandler(ReserveMethod, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) },
				InventoryServiceServer.Reserve),
		},
		{
			MethodName: "Adjust",
			Handler: unaryHandler(AdjustMethod, func() *structpb.Struct { return new(structpb.Struct) },
				InventoryServiceServer.Adjust),
		},
		{
			MethodName: "SetPrice",
			Handler: unaryHandler(SetPriceMethod, func() *structpb.Struct { return new(structpb.Struct) },
				InventoryServiceServer.SetPrice),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookstore/inventory/v1/inventory.proto",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

type InventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) *InventoryServiceClient {
	return &InventoryServiceClient{cc: cc}
}

func (c *InventoryServiceClient) Lookup(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LookupMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryServiceClient) Reserve(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, ReserveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryServiceClient) Adjust(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, AdjustMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryServiceClient) SetPrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SetPriceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
