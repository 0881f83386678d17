package http

import (
	"net/http"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/utils"
)

// auth is an HTTP middleware that enforces session-token authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it against the session authority, and on success stores the
// validated session in the request context via [utils.WithSession] before
// delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token.
//   - The token is expired, revoked, or otherwise invalid.
//
// Validation consults the session registry, not just the token signature, so
// logout and forced invalidation take effect immediately. The session placed
// in the context carries the account's current role.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		session, err := h.services.SessionService.ValidateToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("token validation failed")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// Store the validated session in the context so that downstream
		// handlers can retrieve it without re-validating the token.
		ctx = utils.WithSession(ctx, session)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
