package app

import (
	"context"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/server"
	grpcserver "github.com/shashiranjanraj/storefront/pkg/grpc"
)

// Serve runs the HTTP server, and the gRPC health port when GRPC_PORT is
// set, until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpcserver.Start(port, a.DB)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(srv)
	}

	return server.Start(ctx, handler, config.Port())
}
