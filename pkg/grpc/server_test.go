package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

func TestHealthFollowsStore(t *testing.T) {
	ctx := context.Background()

	up := &healthServer{store: docstore.NewMemory("test")}
	res, err := up.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)

	down := &healthServer{store: docstore.NewOffline("test", errors.New("refused"))}
	res, err = down.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, res.Status)
}

func TestHealthUnknownService(t *testing.T) {
	h := &healthServer{store: docstore.NewMemory("test")}
	_, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestStartServesHealth(t *testing.T) {
	srv, lis, err := Start("0", docstore.NewMemory("test"))
	require.NoError(t, err)
	t.Cleanup(func() { Stop(srv) })

	addr := fmt.Sprintf("127.0.0.1:%d", lis.Addr().(*net.TCPAddr).Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	res, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)
}
