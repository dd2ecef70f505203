// Package transfer orquesta el ciclo de vida de los traslados entre sucursales: cada transición
// bloquea el traslado, valida capacidad y segregación de funciones, mueve stock y seriales a través
// del escritor del libro y confirma todo en una sola transacción.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// Dependencies colaboradores del caso de uso. Notifier, Audit y Metrics son opcionales.
type Dependencies struct {
	TxRunner    inventory.TxRunner
	Read        inventory.Repos
	Refs        inventory.References
	SODSettings repository.SODSettingsRepository
	Permissions ports.PermissionChecker
	Writer      *inventory.LedgerWriter
	Notifier    ports.DiscrepancyNotifier
	Audit       ports.AuditSink
	Metrics     ports.Metrics
	Logger      zerolog.Logger
}

// UseCase casos de uso de traslados.
type UseCase struct {
	txRunner inventory.TxRunner
	read     inventory.Repos
	refs     inventory.References
	settings repository.SODSettingsRepository
	perms    ports.PermissionChecker
	writer   *inventory.LedgerWriter
	notifier ports.DiscrepancyNotifier
	audit    ports.AuditSink
	metrics  ports.Metrics
	log      zerolog.Logger
	now      func() time.Time
	refNo    func(time.Time) string
}

// NewUseCase construye el caso de uso.
func NewUseCase(deps Dependencies) *UseCase {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{
		txRunner: deps.TxRunner,
		read:     deps.Read,
		refs:     deps.Refs,
		settings: deps.SODSettings,
		perms:    deps.Permissions,
		writer:   deps.Writer,
		notifier: deps.Notifier,
		audit:    deps.Audit,
		metrics:  metrics,
		log:      deps.Logger.With().Str("component", "transfer").Logger(),
		now:      time.Now,
		refNo:    NewRefNo,
	}
}

// Get obtiene un traslado con sus ítems.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapTransferView); err != nil {
		return nil, err
	}
	t, err := uc.read.Transfers.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados de la empresa del actor (solo lectura) junto con el total sin paginar.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, filter repository.TransferFilter) ([]*entity.StockTransfer, int, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapTransferView); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	filter.BusinessID = actor.BusinessID
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.read.Transfers.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.read.Transfers.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// applyFunc efectos de una transición sobre el traslado bloqueado. t.Status ya trae el estado destino.
type applyFunc func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error

// transition ejecuta una transición completa: capacidad, bloqueo del traslado, tabla de estados,
// SOD con la configuración vigente de la empresa, efectos y persistencia en una sola transacción.
func (uc *UseCase) transition(ctx context.Context, actor entity.Actor, id string, tr domtransfer.Transition, apply applyFunc) (*entity.StockTransfer, error) {
	result, from, err := uc.runTransition(ctx, actor, id, tr, apply)
	uc.metrics.ObserveTransition(string(tr), outcome(err))
	if err != nil {
		uc.log.Debug().Err(err).Str("transfer_id", id).Str("transition", string(tr)).Str("actor_id", actor.ID).Msg("transición rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", result.ID).
		Str("ref_no", result.RefNo).
		Str("transition", string(tr)).
		Str("from", string(from)).
		Str("to", string(result.Status)).
		Str("actor_id", actor.ID).
		Msg("transición de traslado")
	uc.recordAudit(ctx, ports.AuditEntry{
		BusinessID: result.BusinessID,
		Action:     "transfer." + string(tr),
		EntityType: entity.RefTypeStockTransfer,
		EntityIDs:  []string{result.ID},
		ActorID:    actor.ID,
		Metadata: map[string]any{
			"ref_no": result.RefNo,
			"from":   string(from),
			"to":     string(result.Status),
		},
	})
	return result, nil
}

func (uc *UseCase) runTransition(ctx context.Context, actor entity.Actor, id string, tr domtransfer.Transition, apply applyFunc) (*entity.StockTransfer, entity.TransferStatus, error) {
	if err := ports.Require(ctx, uc.perms, actor, domtransfer.Capability(tr)); err != nil {
		return nil, "", err
	}
	settings, err := uc.sodSettings(ctx, actor.BusinessID)
	if err != nil {
		return nil, "", err
	}
	var (
		result *entity.StockTransfer
		from   entity.TransferStatus
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		t, err := repos.Transfers.GetForUpdate(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		next, err := domtransfer.Next(t.Status, tr)
		if err != nil {
			return err
		}
		if err := domtransfer.CheckSOD(settings, actor, tr, t); err != nil {
			return err
		}
		from = t.Status
		now := uc.now()
		t.Status = next
		if err := apply(ctx, repos, t, now); err != nil {
			return err
		}
		t.UpdatedAt = now
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return result, from, nil
}

// sodSettings configuración vigente de la empresa (la permisiva por defecto si no tiene).
func (uc *UseCase) sodSettings(ctx context.Context, businessID string) (*entity.SODSettings, error) {
	s, err := uc.settings.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return entity.DefaultSODSettings(businessID), nil
	}
	return s, nil
}

func (uc *UseCase) recordAudit(ctx context.Context, entry ports.AuditEntry) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.Record(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", entry.Action).Msg("no se pudo registrar auditoría")
	}
}

// outcome etiqueta de métricas para el resultado de una transición.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	}
	return "error"
}
