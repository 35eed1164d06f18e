package router

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dtroode/fileshare-server/internal/testutil"
)

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()

	ln := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ln.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_RegisterServesHealth(t *testing.T) {
	hs := health.NewServer()
	hs.SetServingStatus("fileshare", healthpb.HealthCheckResponse_NOT_SERVING)

	conn := dial(t, New(hs, testutil.MakeNoopLogger()).Register())
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "fileshare"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	_, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRouter_RegistersReflection(t *testing.T) {
	s := New(health.NewServer(), testutil.MakeNoopLogger()).Register()

	info := s.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
}

func TestRouter_RecoverReturnsInternal(t *testing.T) {
	r := New(health.NewServer(), testutil.MakeNoopLogger())

	err := r.recover(context.Background(), "nil map write")
	assert.Equal(t, codes.Internal, status.Code(err))
}
