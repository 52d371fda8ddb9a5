package middleware

import (
	"context"
	"net/http"
	"strings"

	"restaurant-site/internal/authservice/service"
	"restaurant-site/pkg/httpx"
	"restaurant-site/pkg/logger"
)

type Authenticator interface {
	Authenticate(token string) (service.Identity, error)
}

type identityKey struct{}

// RequireToken rejects requests without a bearer token with 401 and requests
// whose token does not verify with 403.
func RequireToken(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
				return
			}

			identity, err := auth.Authenticate(token)
			if err != nil {
				log.RequestID(httpx.RequestIDFrom(r.Context())).Action("token_rejected").
					Debug("Rejected access token", "path", r.URL.Path, "reason", err.Error())
				httpx.JSONError(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IdentityFrom returns the identity stored by RequireToken.
func IdentityFrom(ctx context.Context) (service.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(service.Identity)
	return identity, ok
}
