package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// grpcTransport calls the ledger's gRPC service with JSON-encoded messages.
type grpcTransport struct {
	endpointURL string
	conn        *grpc.ClientConn
	logger      logging.Logger
}

func withRequestID(ctx context.Context) (context.Context, string) {
	md, _ := metadata.FromOutgoingContext(ctx)
	if ids := md.Get(api.RequestIDKey); len(ids) > 0 {
		return ctx, ids[0]
	}
	id := uuid.NewString()
	return metadata.AppendToOutgoingContext(ctx, api.RequestIDKey, id), id
}

func (t *grpcTransport) requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx, id := withRequestID(ctx)

	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	t.logger.Debug(ctx, "rpc done", "method", method, "request_id", id, "elapsed", time.Since(start), "error", err)
	return err
}

// NewGRPCClient dials endpointURL (host:port) lazily and returns a Client.
// Extra dial options are appended after the defaults.
func NewGRPCClient(endpointURL string, logger logging.Logger, opts ...grpc.DialOption) (*LedgerClient, error) {
	t := &grpcTransport{endpointURL: endpointURL, logger: logger.With("transport", "grpc")}
	if err := t.init(opts...); err != nil {
		return nil, err
	}
	return newLedgerClient(t), nil
}

func (t *grpcTransport) init(extra ...grpc.DialOption) error {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(t.requestIDInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	}
	conn, err := grpc.NewClient(t.endpointURL, append(opts, extra...)...)
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

func (t *grpcTransport) call(ctx context.Context, r route, in, out any) error {
	if in == nil {
		in = &struct{}{}
	}
	if out == nil {
		out = &struct{}{}
	}
	var trailer metadata.MD
	err := t.conn.Invoke(ctx, api.FullMethod(r.rpc), in, out, grpc.Trailer(&trailer))
	return errorFromGRPC(err, trailer)
}

func (t *grpcTransport) close() error {
	return t.conn.Close()
}
