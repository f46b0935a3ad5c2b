package intercepters

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestSubnetIPInterceptor(t *testing.T) {
	// A dummy handler that returns the real-ip value from context if present
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		ip, _ := ctx.Value(RealIPKey).(string)
		return ip, nil
	}

	tests := []struct {
		name   string
		ctx    context.Context
		wantIP string
	}{
		{
			name:   "with x-real-ip metadata",
			ctx:    metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "192.168.1.100")),
			wantIP: "192.168.1.100",
		},
		{
			name:   "with empty x-real-ip metadata",
			ctx:    metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "")),
			wantIP: "",
		},
		{
			name:   "without metadata",
			ctx:    context.Background(),
			wantIP: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := SubnetIPInterceptor(tt.ctx, nil, &grpc.UnaryServerInfo{
				FullMethod: "/test.TestMethod",
			}, handler)
			if err != nil {
				t.Fatalf("Interceptor returned error: %v", err)
			}
			gotIP, _ := resp.(string)
			if gotIP != tt.wantIP {
				t.Errorf("got IP = %q, want %q", gotIP, tt.wantIP)
			}
		})
	}
}

func TestWithTrustedSubnet(t *testing.T) {
	const gatedMethod = "/bearlink.v1.Links/Stats"

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}
	interceptor := WithTrustedSubnet("10.1.0.0/16", gatedMethod)

	tests := []struct {
		name     string
		method   string
		ip       string
		wantCode codes.Code
	}{
		{name: "ungated method", method: "/bearlink.v1.Links/GetLink", ip: "", wantCode: codes.OK},
		{name: "trusted caller", method: gatedMethod, ip: "10.1.2.3", wantCode: codes.OK},
		{name: "outside subnet", method: gatedMethod, ip: "10.2.0.1", wantCode: codes.PermissionDenied},
		{name: "no ip", method: gatedMethod, ip: "", wantCode: codes.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ip != "" {
				ctx = context.WithValue(ctx, RealIPKey, tt.ip)
			}

			resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			if status.Code(err) != tt.wantCode {
				t.Fatalf("got code %v, want %v", status.Code(err), tt.wantCode)
			}
			if tt.wantCode == codes.OK && resp != "ok" {
				t.Errorf("unexpected response %v", resp)
			}
		})
	}
}

func TestWithTrustedSubnet_Unconfigured(t *testing.T) {
	interceptor := WithTrustedSubnet("", "/bearlink.v1.Links/Stats")
	ctx := context.WithValue(context.Background(), RealIPKey, "127.0.0.1")

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/bearlink.v1.Links/Stats"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("got %v, want PermissionDenied", err)
	}
}
