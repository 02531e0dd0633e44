package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/shiritorimatch-go/internal/api/apierr"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/player"
)

type contextKey string

const playerContextKey contextKey = "player"

// Auth creates authentication middleware resolving the bearer token to a
// player
func Auth(players *player.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			p, err := players.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the credential from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	p, _ := ctx.Value(playerContextKey).(*model.Player)
	return p
}

// MustGetPlayer returns the authenticated player or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	p := GetPlayer(ctx)
	if p == nil {
		panic("no player in context - auth middleware not applied?")
	}
	return p
}
