package http

import (
	"context"
	"net/http"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/utils"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the opaque token from the "Authorization" header and resolves
// it against the session registry, which is the sole source of truth: there
// is nothing to inspect inside the token itself. On success it stores the
// account ID and the raw token in the request context; privileged handlers
// pass the token through to the audited channel so the actor is re-resolved
// there as well.
//
// All rejections answer 401 without distinguishing missing, malformed,
// expired and revoked tokens beyond the header-level sentinels.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(ErrInvalidAuthorizationHeader).Send()
			http.Error(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		accountID, err := h.services.Sessions.Validate(token)
		if err != nil {
			log.Err(err).Msg("session validation failed")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.AccountIDCtxKey, accountID)
		ctx = context.WithValue(ctx, utils.SessionTokenCtxKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
