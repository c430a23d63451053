package register

import (
	"context"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceAccounts interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
}

func HandlerRegister(svc ServiceAccounts, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		if err := httputils.DecodeJSON(r, &req); err != nil {
			httputils.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		user, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
		httputils.WriteJSONResponse(w, http.StatusCreated, dto.UserResponseFromDomain(user))
	}
}
