package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"google.golang.org/grpc"
)

// unary builds a method whose request and response travel as JSON through
// the api codec. It mirrors what protoc-gen-go-grpc emits for a unary call.
func unary[Req any, Resp any](name string, call func(*endpoints.Endpoints, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			e := srv.(*endpoints.Endpoints)
			if interceptor == nil {
				return call(e, ctx, *in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: api.FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(e, ctx, *req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func ping(e *endpoints.Endpoints, ctx context.Context, _ struct{}) (*api.HealthResponse, error) {
	return e.Health(ctx)
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: api.LedgerService,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(api.MethodPing, ping),
		unary(api.MethodUserDetails, (*endpoints.Endpoints).UserDetails),
		unary(api.MethodRegister, (*endpoints.Endpoints).Register),
		unary(api.MethodVerifyTOTPSetup, (*endpoints.Endpoints).VerifyTOTPSetup),
		unary(api.MethodRegenerateTOTP, (*endpoints.Endpoints).RegenerateTOTP),
		unary(api.MethodTransactions, (*endpoints.Endpoints).Transactions),
		unary(api.MethodVerifyTOTP, (*endpoints.Endpoints).VerifyTOTP),
		unary(api.MethodTransfer, (*endpoints.Endpoints).Transfer),
		unary(api.MethodSearchUsers, (*endpoints.Endpoints).SearchUsers),
		unary(api.MethodEditProfile, (*endpoints.Endpoints).EditProfile),
		unary(api.MethodChangeEmail, (*endpoints.Endpoints).ChangeEmail),
	},
	Metadata: "gophwallet/ledger.json",
}
