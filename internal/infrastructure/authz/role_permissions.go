// Package authz resuelve capacidades a partir de los roles del token.
package authz

import (
	"context"
	"sort"

	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// StaffCounter cuenta el personal activo de una empresa por roles.
type StaffCounter interface {
	CountByRoles(ctx context.Context, businessID string, roles []string) (int, error)
}

// DefaultRoleCapabilities tabla rol -> capacidades.
func DefaultRoleCapabilities() map[string][]string {
	transferAll := []string{
		entity.CapTransferCreate, entity.CapTransferCheck, entity.CapTransferApprove,
		entity.CapTransferSend, entity.CapTransferReceive, entity.CapTransferComplete,
		entity.CapTransferCancel, entity.CapTransferView,
	}
	admin := append([]string{
		entity.CapInventoryView, entity.CapInventoryAdjust, entity.CapInventoryCorrect,
		entity.CapInventoryApproveCorrect, entity.CapSettingsManage,
	}, transferAll...)
	supervisor := append([]string{
		entity.CapInventoryView, entity.CapInventoryCorrect, entity.CapInventoryApproveCorrect,
	}, transferAll...)
	return map[string][]string{
		entity.RoleAdmin:      admin,
		entity.RoleSupervisor: supervisor,
		entity.RoleBodeguero: {
			entity.CapTransferCreate, entity.CapTransferCheck, entity.CapTransferSend,
			entity.CapTransferReceive, entity.CapTransferComplete, entity.CapTransferView,
			entity.CapInventoryView, entity.CapInventoryAdjust, entity.CapInventoryCorrect,
		},
		entity.RoleVendedor: {entity.CapTransferCreate, entity.CapTransferView, entity.CapInventoryView},
		entity.RoleAuditor:  {entity.CapTransferView, entity.CapInventoryView, entity.CapInventoryApproveCorrect},
	}
}

// RolePermissions PermissionChecker basado en una tabla estática de roles.
type RolePermissions struct {
	table map[string]map[string]bool
	staff StaffCounter
}

var _ ports.PermissionChecker = (*RolePermissions)(nil)

// New construye el checker. table nil usa DefaultRoleCapabilities.
func New(table map[string][]string, staff StaffCounter) *RolePermissions {
	if table == nil {
		table = DefaultRoleCapabilities()
	}
	idx := make(map[string]map[string]bool, len(table))
	for role, caps := range table {
		idx[role] = make(map[string]bool, len(caps))
		for _, c := range caps {
			idx[role][c] = true
		}
	}
	return &RolePermissions{table: idx, staff: staff}
}

func (p *RolePermissions) HasCapability(_ context.Context, actor entity.Actor, capability string) (bool, error) {
	for _, role := range actor.Roles {
		if p.table[role][capability] {
			return true, nil
		}
	}
	return false, nil
}

func (p *RolePermissions) HasRole(actor entity.Actor, role string) bool {
	return actor.HasRole(role)
}

func (p *RolePermissions) CountWithCapability(ctx context.Context, businessID, capability string) (int, error) {
	roles := p.RolesWith(capability)
	if len(roles) == 0 || p.staff == nil {
		return 0, nil
	}
	return p.staff.CountByRoles(ctx, businessID, roles)
}

// RolesWith roles que otorgan la capacidad, ordenados.
func (p *RolePermissions) RolesWith(capability string) []string {
	var roles []string
	for role, caps := range p.table {
		if caps[capability] {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles
}
