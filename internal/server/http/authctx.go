package httpserver

import (
	"context"
	"net/http"

	"github.com/MarcusLeong7/vttp-project/internal/model"
)

type ctxKey string

const principalKey ctxKey = "vttp.principal"

// WithPrincipal stores the authenticated principal in context.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the principal from context.
func PrincipalFromCtx(ctx context.Context) (model.Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}

// IsAuthenticated reports whether the request carries a resolved principal.
func IsAuthenticated(r *http.Request) bool {
	_, ok := PrincipalFromCtx(r.Context())
	return ok
}
