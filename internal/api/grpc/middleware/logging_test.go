package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/fileshare-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantResp any
		wantCode codes.Code
	}{
		{
			name: "success",
			handler: func(ctx context.Context, req any) (any, error) {
				return "ok", nil
			},
			wantResp: "ok",
			wantCode: codes.OK,
		},
		{
			name: "status error passes through",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.NotFound, "unknown service")
			},
			wantCode: codes.NotFound,
		},
		{
			name: "plain error passes through",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := lg.HandleGRPC(context.Background(), nil, info, tt.handler)
			assert.Equal(t, tt.wantResp, resp)
			assert.Equal(t, tt.wantCode, codeOf(err))
		})
	}
}

func TestLogging_HandleStream(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"}

	called := false
	err := lg.HandleStream(nil, nil, info, func(srv any, ss grpc.ServerStream) error {
		called = true
		return status.Error(codes.Canceled, "client gone")
	})

	require.True(t, called)
	assert.Equal(t, codes.Canceled, status.Code(err))
}
