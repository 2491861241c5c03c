package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rl1809/bookstore/internal/adapter/handler/pb"
	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedInventoryServiceServer
	inventory *service.InventoryService
}

func NewGRPCHandler(inventory *service.InventoryService) *GRPCHandler {
	return &GRPCHandler{inventory: inventory}
}

func (h *GRPCHandler) Lookup(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	item, err := h.inventory.Lookup(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(err)
	}

	out, err := pb.ItemToStruct(*item)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode item: %v", err)
	}
	return out, nil
}

func (h *GRPCHandler) Reserve(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	remaining, err := h.inventory.Reserve(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(err)
	}
	return wrapperspb.Int64(remaining), nil
}

func (h *GRPCHandler) Adjust(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	id, err := pb.Int64Field(req, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	delta, err := pb.Int64Field(req, "delta")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	quantity, err := h.inventory.Adjust(ctx, id, delta)
	if err != nil {
		return nil, grpcError(err)
	}
	return wrapperspb.Int64(quantity), nil
}

func (h *GRPCHandler) SetPrice(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, err := pb.Int64Field(req, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	price, err := pb.Int64Field(req, "price")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.inventory.SetPrice(ctx, id, price); err != nil {
		return nil, grpcError(err)
	}
	return &emptypb.Empty{}, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrReserveUnavailable):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
