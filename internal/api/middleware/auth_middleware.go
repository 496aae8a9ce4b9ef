package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/token"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
)

// AuthPayloadMiddleware parses the bearer token when present and stores the
// payload on the context. It never rejects; route-level guards decide whether
// an identity is required.
func AuthPayloadMiddleware(tokenMaker token.Maker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(string(constants.AuthorizationHeaderKey))
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			fields := strings.Fields(authHeader)
			if len(fields) != 2 || !strings.EqualFold(fields[0], string(constants.AuthorizationTypeBearer)) {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := tokenMaker.VerifyToken(fields[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), constants.AuthorizationPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthMiddleware requires an authenticated identity on the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetTokenPayloadFromContext(r.Context()) == nil {
			apiutil.ErrorJSON(w, errs.New(errs.KindUnauthenticated, "unauthenticated"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware requires an authenticated identity with the admin role.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := util.GetTokenPayloadFromContext(r.Context())
		if payload == nil {
			apiutil.ErrorJSON(w, errs.New(errs.KindUnauthenticated, "unauthenticated"))
			return
		}
		if !payload.IsAdmin() {
			apiutil.ErrorJSON(w, errs.New(errs.KindForbidden, "admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
