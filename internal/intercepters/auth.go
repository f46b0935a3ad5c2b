package intercepters

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/middleware"
)

const (
	// AuthorizationKey carries "Bearer <token>".
	AuthorizationKey = "authorization"
	// NewTokenTrailer returns the token minted for an anonymous caller.
	NewTokenTrailer = "new-token"

	healthServicePrefix = "/grpc.health.v1.Health/"
)

// bearerToken extracts the token from an authorization value. The scheme
// is matched case-insensitively.
func bearerToken(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithJWT resolves the caller from the authorization metadata. Calls
// without a token get a fresh identity returned in the NewTokenTrailer
// trailer. Health checks are not authenticated.
func WithJWT(auth service.AuthIface) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		values := md.Get(AuthorizationKey)
		if len(values) == 0 {
			token, userID, err := auth.BuildJWTString()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "issue identity: %v", err)
			}
			_ = grpc.SetTrailer(ctx, metadata.Pairs(NewTokenTrailer, token))
			return handler(context.WithValue(ctx, middleware.UserIDKey, userID), req)
		}

		token, ok := bearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "authorization must be a bearer token")
		}
		claims, err := auth.ParseRawJWT(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid JWT: %v", err)
		}
		return handler(context.WithValue(ctx, middleware.UserIDKey, claims.UserID), req)
	}
}
