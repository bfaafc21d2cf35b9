package common

import "context"

// Principal identifies the authenticated caller of a request. It is populated
// by the bearer-token middleware from validated JWT claims. A nil Principal
// means the request is anonymous.
type Principal struct {
	UserID   string
	Email    string
	Provider string
}

type contextKey int

const principalKey contextKey = iota

// WithPrincipal stores a Principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the Principal from context, or nil if the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// ResolveUserID returns the authenticated user ID from context, or "" when
// the request is anonymous.
func ResolveUserID(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return ""
}
