package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/bearlink/internal/app/service"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// UserIDKey carries the caller's user ID.
const UserIDKey ContextKey = "userID"

// TokenCookie is the cookie holding the identity token.
const TokenCookie = "token"

// InjectUserID returns req with userID in its context.
func InjectUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
}

// UserID returns the user placed in ctx by WithJWT or the gRPC interceptor.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// WithJWT identifies the caller by the token cookie. A caller without a
// cookie gets a fresh identity; a forged or expired cookie is rejected
// with 401 rather than silently replaced, so links never change owner.
func WithJWT(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil {
				token, userID, err := auth.BuildJWTString()
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    token,
					Expires:  time.Now().Add(service.TokenExp),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
					Path:     "/",
				})
				next.ServeHTTP(w, InjectUserID(r, userID))
				return
			}

			claims, err := auth.ParseClaims(cookie)
			if err != nil {
				http.Error(w, "invalid identity token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, InjectUserID(r, claims.UserID))
		})
	}
}
