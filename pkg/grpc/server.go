// Package grpc runs the storefront's gRPC side port. It carries only the
// standard health service (grpc.health.v1.Health), whose status follows
// document store reachability:
//
//	srv, lis, err := grpc.Start(config.GRPCPort(), db)
//	// ...run until signal...
//	grpc.Stop(srv)
//
// grpcurl -plaintext localhost:$GRPC_PORT grpc.health.v1.Health/Check
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const (
	pingTimeout   = 2 * time.Second
	watchInterval = 5 * time.Second
	maxMsgSize    = 4 * 1024 * 1024
)

// ─── Prometheus metrics ───────────────────────────────────────────────────────

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"grpc_method"})
)

func init() {
	_ = metrics.Register(requestsTotal)
	_ = metrics.Register(requestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

func recoveryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs each unary call and records its metrics.
func observeInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := status.Code(err)
	requestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	requestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

	logger.WithCtx(ctx).Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Health service ───────────────────────────────────────────────────────────

// Pinger is satisfied by docstore.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	store Pinger
}

func (h *healthServer) current(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if h.store == nil || h.store.Ping(ctx) != nil {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *healthServer) Check(
	ctx context.Context,
	req *grpc_health_v1.HealthCheckRequest,
) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", "storefront":
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	return &grpc_health_v1.HealthCheckResponse{Status: h.current(ctx)}, nil
}

// Watch sends the status once, then again whenever it changes.
func (h *healthServer) Watch(
	req *grpc_health_v1.HealthCheckRequest,
	stream grpc_health_v1.Health_WatchServer,
) error {
	ctx := stream.Context()
	last := h.current(ctx)
	if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: last}); err != nil {
		return err
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next := h.current(ctx)
			if next == last {
				continue
			}
			last = next
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: next}); err != nil {
				return err
			}
		}
	}
}

// ─── Public API ───────────────────────────────────────────────────────────────

// NewServer builds a server with the interceptors and health service
// registered, without listening.
func NewServer(store Pinger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(maxMsgSize),
		grpc.MaxSendMsgSize(maxMsgSize),
	)
	grpc_health_v1.RegisterHealthServer(srv, &healthServer{store: store})
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background. Port "0" picks a
// free port; read it from the returned listener.
func Start(port string, store Pinger) (*grpc.Server, net.Listener, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := NewServer(store)
	logger.Info("gRPC server starting", "addr", lis.Addr().String())

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return srv, lis, nil
}

// Stop waits for in-flight RPCs, then stops the server.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("gRPC server shutting down")
	srv.GracefulStop()
}
