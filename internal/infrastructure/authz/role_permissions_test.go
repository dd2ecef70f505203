package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/infrastructure/authz"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
)

func TestHasCapability_PorRol(t *testing.T) {
	p := authz.New(nil, nil)
	ctx := context.Background()

	ok, err := p.HasCapability(ctx, entity.Actor{Roles: []string{entity.RoleVendedor}}, entity.CapTransferCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = p.HasCapability(ctx, entity.Actor{Roles: []string{entity.RoleVendedor}}, entity.CapTransferSend)
	assert.False(t, ok, "un vendedor no despacha mercancía")

	ok, _ = p.HasCapability(ctx, entity.Actor{Roles: []string{entity.RoleVendedor, entity.RoleBodeguero}}, entity.CapTransferSend)
	assert.True(t, ok, "basta con uno de los roles")

	ok, _ = p.HasCapability(ctx, entity.Actor{}, entity.CapTransferView)
	assert.False(t, ok)
}

func TestCountWithCapability(t *testing.T) {
	store := memory.NewStore()
	store.AddStaff(entity.Actor{ID: "a", BusinessID: "biz", Roles: []string{entity.RoleBodeguero}})
	store.AddStaff(entity.Actor{ID: "b", BusinessID: "biz", Roles: []string{entity.RoleVendedor}})
	store.AddStaff(entity.Actor{ID: "c", BusinessID: "otra", Roles: []string{entity.RoleAdmin}})
	p := authz.New(nil, store)

	n, err := p.CountWithCapability(context.Background(), "biz", entity.CapTransferSend)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.CountWithCapability(context.Background(), "biz", entity.CapTransferView)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRolesWith(t *testing.T) {
	p := authz.New(nil, nil)
	assert.Equal(t, []string{entity.RoleAdmin}, p.RolesWith(entity.CapSettingsManage))
}
