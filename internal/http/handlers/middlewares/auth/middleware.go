package auth

import (
	"context"
	"errors"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ctxKey int

const userKey ctxKey = iota

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

// MiddlewareAuth пускает дальше только с валидным Bearer access токеном
// и кладет пользователя в контекст.
func MiddlewareAuth(auth Authenticator, log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := httputils.BearerToken(r)
			if token == "" {
				httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailNotAuthenticated)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, models.ErrInvalidToken) {
					log.Error().Err(err).Msg("failed to authenticate request")
					httputils.WriteDetail(w, http.StatusInternalServerError, httputils.DetailInternal)
					return
				}
				httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailTokenNotValid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext - пользователь, положенный MiddlewareAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok && user.ID > 0
}
