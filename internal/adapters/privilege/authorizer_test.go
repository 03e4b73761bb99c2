package privilege_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lesscache/internal/adapters/privilege"
)

func TestAuthorizer_Privileged(t *testing.T) {
	ctx := context.Background()

	deny := privilege.New(false)
	allow := privilege.New(true)

	assert.False(t, deny.Privileged(ctx))
	assert.True(t, allow.Privileged(ctx))

	assert.True(t, deny.Privileged(privilege.WithPrivileged(ctx, true)))
	assert.False(t, allow.Privileged(privilege.WithPrivileged(ctx, false)))
}

func TestWithPrivileged_InnermostWins(t *testing.T) {
	ctx := privilege.WithPrivileged(context.Background(), true)
	ctx = privilege.WithPrivileged(ctx, false)

	assert.False(t, privilege.New(true).Privileged(ctx))
}
