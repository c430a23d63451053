package login

import (
	"context"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceAccounts interface {
	Login(ctx context.Context, username, password string) (models.User, models.TokenPair, error)
}

func HandlerLogin(svc ServiceAccounts, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := httputils.DecodeJSON(r, &req); err != nil {
			httputils.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		user, pair, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.LoginResponseFromDomain(user, pair))
	}
}
