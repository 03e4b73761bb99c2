// Package privilege decides which callers may rescan monitored directories.
package privilege

import (
	"context"

	"go.trai.ch/lesscache/internal/core/ports"
)

var _ ports.Authorizer = (*Authorizer)(nil)

type ctxKey struct{}

// WithPrivileged returns a copy of ctx that carries the caller's privilege.
func WithPrivileged(ctx context.Context, privileged bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, privileged)
}

// Authorizer reads the privilege recorded by WithPrivileged. Contexts without
// a recorded privilege fall back to the default.
type Authorizer struct {
	fallback bool
}

// New creates an Authorizer that treats unmarked callers as privileged when fallback is true.
func New(fallback bool) *Authorizer {
	return &Authorizer{fallback: fallback}
}

// Privileged implements ports.Authorizer.
func (a *Authorizer) Privileged(ctx context.Context) bool {
	if v, ok := ctx.Value(ctxKey{}).(bool); ok {
		return v
	}
	return a.fallback
}
