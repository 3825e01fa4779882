package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	endpoints *endpoints.Endpoints
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, e *endpoints.Endpoints) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		endpoints: e,
	}
}

// newServer builds the gRPC server with the ledger service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.errorInterceptor))
	srv.RegisterService(&ledgerServiceDesc, s.endpoints)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
