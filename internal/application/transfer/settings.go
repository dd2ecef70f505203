package transfer

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// SODSettingsResult configuración vigente con sus advertencias de personal.
type SODSettingsResult struct {
	Settings       *entity.SODSettings
	RequiredStaff  int
	AvailableStaff int
	Warnings       []string
}

// GetSODSettings devuelve la configuración de la empresa del actor (la por defecto si no tiene).
func (uc *UseCase) GetSODSettings(ctx context.Context, actor entity.Actor) (*SODSettingsResult, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapTransferView); err != nil {
		return nil, err
	}
	s, err := uc.sodSettings(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	return uc.withWarnings(ctx, s)
}

// UpdateSODSettings guarda la configuración. Las advertencias de personal nunca bloquean el guardado.
func (uc *UseCase) UpdateSODSettings(ctx context.Context, actor entity.Actor, s entity.SODSettings) (*SODSettingsResult, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapSettingsManage); err != nil {
		return nil, err
	}
	if s.MinStaffWarningThreshold < 0 {
		return nil, fmt.Errorf("%w: umbral de personal negativo", domain.ErrInvalidInput)
	}
	s.BusinessID = actor.BusinessID
	s.UpdatedBy = actor.ID
	s.UpdatedAt = uc.now()
	if err := uc.settings.Upsert(ctx, &s); err != nil {
		return nil, err
	}
	result, err := uc.withWarnings(ctx, &s)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		uc.log.Warn().Str("business_id", s.BusinessID).Msg(w)
	}
	uc.recordAudit(ctx, ports.AuditEntry{
		BusinessID: s.BusinessID,
		Action:     "settings.transfer_sod.update",
		EntityType: "transfer_sod_settings",
		EntityIDs:  []string{s.BusinessID},
		ActorID:    actor.ID,
		Metadata: map[string]any{
			"required_staff": result.RequiredStaff,
			"exempt_roles":   s.ExemptRoles,
		},
	})
	return result, nil
}

func (uc *UseCase) withWarnings(ctx context.Context, s *entity.SODSettings) (*SODSettingsResult, error) {
	available, err := uc.perms.CountWithCapability(ctx, s.BusinessID, entity.CapTransferView)
	if err != nil {
		return nil, err
	}
	return &SODSettingsResult{
		Settings:       s,
		RequiredStaff:  domtransfer.RequiredStaff(s),
		AvailableStaff: available,
		Warnings:       domtransfer.StaffingWarnings(s, available),
	}, nil
}
