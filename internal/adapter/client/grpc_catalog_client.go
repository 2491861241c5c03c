package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rl1809/bookstore/internal/adapter/handler/pb"
	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/observability"
)

type GRPCCatalogClient struct {
	conn    *grpc.ClientConn
	client  *pb.InventoryServiceClient
	timeout time.Duration
}

func NewGRPCCatalogClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCCatalogClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(observability.UnaryClientInterceptor()),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %w", err)
	}

	return &GRPCCatalogClient{
		conn:    conn,
		client:  pb.NewInventoryServiceClient(conn),
		timeout: timeout,
	}, nil
}

func (c *GRPCCatalogClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *GRPCCatalogClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *GRPCCatalogClient) Lookup(ctx context.Context, id int64) (*domain.Item, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Lookup(ctx, wrapperspb.Int64(id))
	if err != nil {
		return nil, fromStatus("lookup", err, nil)
	}

	item, err := pb.ItemFromStruct(resp)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "lookup", Status: http.StatusBadGateway, Err: err}
	}
	return &item, nil
}

func (c *GRPCCatalogClient) Reserve(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Reserve(ctx, wrapperspb.Int64(id))
	if err != nil {
		if status.Code(err) == codes.Unimplemented {
			return 0, domain.ErrReserveUnavailable
		}
		return 0, fromStatus("reserve", err, domain.ErrOutOfStock)
	}
	return resp.GetValue(), nil
}

func (c *GRPCCatalogClient) Adjust(ctx context.Context, id int64, delta int64) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := pb.AdjustRequest(id, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust: encode request: %w", err)
	}

	resp, err := c.client.Adjust(ctx, req)
	if err != nil {
		return 0, fromStatus("adjust", err, domain.ErrStockConflict)
	}
	return resp.GetValue(), nil
}

// fromStatus maps a gRPC status back onto the domain taxonomy. FailedPrecondition
// means different things per method, so the caller names it (nil when unexpected).
func fromStatus(op string, err error, failedPrecondition error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &domain.UpstreamError{Op: op, Err: err}
	}

	switch st.Code() {
	case codes.NotFound:
		return domain.ErrItemNotFound
	case codes.FailedPrecondition:
		if failedPrecondition != nil {
			return failedPrecondition
		}
		return &domain.UpstreamError{Op: op, Status: http.StatusConflict, Err: errors.New(st.Message())}
	case codes.InvalidArgument:
		return &domain.UpstreamError{Op: op, Status: http.StatusBadRequest, Err: errors.New(st.Message())}
	case codes.DeadlineExceeded:
		return &domain.UpstreamError{Op: op, Status: http.StatusGatewayTimeout, Err: errors.New(st.Message())}
	case codes.Unavailable:
		return &domain.UpstreamError{Op: op, Status: http.StatusServiceUnavailable, Err: errors.New(st.Message())}
	default:
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("%s: %s", st.Code(), st.Message())}
	}
}
