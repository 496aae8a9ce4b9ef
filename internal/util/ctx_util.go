package util

import (
	"context"

	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/token"
)

// GetTokenPayloadFromContext returns the authenticated identity placed on the
// context by the auth payload middleware, or nil when the request is
// anonymous.
func GetTokenPayloadFromContext(ctx context.Context) *token.Payload {
	if v := ctx.Value(constants.AuthorizationPayloadKey); v != nil {
		if payload, ok := v.(*token.Payload); ok {
			return payload
		}
	}
	return nil
}

func GetRequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(constants.RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return "unknown"
}
