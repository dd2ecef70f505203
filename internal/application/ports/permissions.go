package ports

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// PermissionChecker define el puerto de autorización por capacidades.
// La autenticación ocurre antes (middleware JWT); aquí solo se decide si el actor puede.
type PermissionChecker interface {
	HasCapability(ctx context.Context, actor entity.Actor, capability string) (bool, error)
	HasRole(actor entity.Actor, role string) bool
	// CountWithCapability cuenta el personal activo de la empresa que tiene la capacidad.
	CountWithCapability(ctx context.Context, businessID, capability string) (int, error)
}

// Require devuelve domain.ErrForbidden si el actor no tiene la capacidad.
func Require(ctx context.Context, perms PermissionChecker, actor entity.Actor, capability string) error {
	ok, err := perms.HasCapability(ctx, actor, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: falta la capacidad %s", domain.ErrForbidden, capability)
	}
	return nil
}
