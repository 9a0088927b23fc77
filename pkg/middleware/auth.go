package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

// TokenValidator resolves a bearer token to its caller. A nil identity with
// a nil error means the token is not valid.
type TokenValidator interface {
	Validate(ctx context.Context, plaintext string) (*utils.Identity, error)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(w http.ResponseWriter) {
	utils.ResponseError(w, utils.NewUnauthenticated("Unauthenticated",
		"Authentication required. Please provide a valid token."), false)
}

// Authenticate resolves the bearer token and stores the caller identity in
// the request context.
func Authenticate(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			token, ok := bearerToken(r)
			if !ok {
				unauthenticated(w)
				return
			}

			identity, err := tokens.Validate(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate token", zap.Error(err))
				utils.ResponseInternalError(w, "An error occurred", "An unexpected error occurred. Please try again later.")
				return
			}

			if identity == nil {
				logger.Warn("Invalid token", zap.String("path", r.URL.Path))
				unauthenticated(w)
				return
			}

			ctx := utils.SetIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the authenticated caller
// has exactly the given role. It must run after Authenticate.
func RequireRole(role entity.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentity(r.Context())
			if !ok {
				unauthenticated(w)
				return
			}

			if identity.User.Role != role {
				logger.Warn("Role check failed",
					zap.Int64("user_id", identity.UserID()),
					zap.String("required_role", string(role)),
					zap.String("path", r.URL.Path))
				utils.ResponseError(w, utils.NewUnauthorized("Unauthorized",
					fmt.Sprintf("This action requires %s role. You do not have permission to perform this action.", role)), false)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
