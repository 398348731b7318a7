package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/hisab/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// AnonymousKey marks a request made with an anonymous identity.
	AnonymousKey contextKey = "anonymous"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// IsAnonymous reports whether the authenticated identity is anonymous.
func IsAnonymous(ctx context.Context) bool {
	anonymous, _ := ctx.Value(AnonymousKey).(bool)
	return anonymous
}

// WithClaims returns ctx carrying the identity from claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return context.WithValue(ctx, AnonymousKey, claims.Anonymous)
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the user ID and email to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			// Validate token
			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication. Useful for endpoints that have different behavior
// for authenticated vs unauthenticated users.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if tokenString, ok := bearerToken(authHeader); ok {
				// Validate token (ignore errors - optional auth)
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithClaims(ctx, claims)
				}
			}

			// Call the next handler (with or without user context)
			return next(ctx, req)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}
