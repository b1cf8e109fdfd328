package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type contextKey string

const PersonKey contextKey = "person"

const accessTokenCookie = "access_token"

// Authenticate resolves the session token from the access_token cookie or
// a bearer header and stores the person in the request context.
func Authenticate(tokens ports.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeError(w, r, domain.ErrInvalidCredential)
				return
			}

			person, err := tokens.Parse(token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), PersonKey, person)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func personFrom(ctx context.Context) (domain.Person, bool) {
	person, ok := ctx.Value(PersonKey).(domain.Person)
	return person, ok
}
