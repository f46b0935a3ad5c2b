package intercepters

import (
	"context"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const RealIPKey contextKey = "real-ip"

// SubnetIPInterceptor copies the x-real-ip metadata into the context.
func SubnetIPInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if ips := md.Get("x-real-ip"); len(ips) > 0 {
			ctx = context.WithValue(ctx, RealIPKey, ips[0])
		}
	}
	return handler(ctx, req)
}

// WithTrustedSubnet rejects calls to the listed methods unless the real IP
// placed by SubnetIPInterceptor is inside subnet. Other methods pass.
func WithTrustedSubnet(subnet string, methods ...string) grpc.UnaryServerInterceptor {
	_, trusted, err := net.ParseCIDR(strings.TrimSpace(subnet))
	if err != nil {
		trusted = nil
	}

	gated := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		gated[m] = struct{}{}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if _, ok := gated[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		raw, _ := ctx.Value(RealIPKey).(string)
		ip := net.ParseIP(strings.TrimSpace(raw))
		if trusted == nil || ip == nil || !trusted.Contains(ip) {
			return nil, status.Error(codes.PermissionDenied, "caller is outside the trusted subnet")
		}
		return handler(ctx, req)
	}
}
