package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// CorrectionPolicy cuándo una corrección queda pendiente de aprobación en lugar de aplicarse.
// ApprovalThreshold <= 0 desactiva el umbral; RecurrenceWindow <= 0 desactiva la recurrencia.
type CorrectionPolicy struct {
	ApprovalThreshold decimal.Decimal
	RecurrenceWindow  time.Duration
}

// ReconciliationUseCase compara libro vs snapshot y aplica correcciones por conteo físico.
type ReconciliationUseCase struct {
	txRunner TxRunner
	read     Repos
	refs     References
	perms    ports.PermissionChecker
	writer   *LedgerWriter
	metrics  ports.Metrics
	audit    ports.AuditSink
	policy   CorrectionPolicy
	log      zerolog.Logger
	now      func() time.Time
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(
	txRunner TxRunner,
	read Repos,
	refs References,
	perms ports.PermissionChecker,
	writer *LedgerWriter,
	metrics ports.Metrics,
	audit ports.AuditSink,
	policy CorrectionPolicy,
	log zerolog.Logger,
) *ReconciliationUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &ReconciliationUseCase{
		txRunner: txRunner,
		read:     read,
		refs:     refs,
		perms:    perms,
		writer:   writer,
		metrics:  metrics,
		audit:    audit,
		policy:   policy,
		log:      log.With().Str("component", "reconciliation").Logger(),
		now:      time.Now,
	}
}

// Reconcile compara la suma del libro con el snapshot de una llave.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, actor entity.Actor, variationID, locationID string) (repository.StockVariance, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return repository.StockVariance{}, err
	}
	variation, err := resolveKey(ctx, uc.refs, actor.BusinessID, variationID, locationID)
	if err != nil {
		return repository.StockVariance{}, err
	}
	key := entity.StockKey{VariationID: variationID, LocationID: locationID}
	sum, err := uc.read.Ledger.SumByKey(ctx, key)
	if err != nil {
		return repository.StockVariance{}, err
	}
	snap, err := uc.read.Snapshots.Get(ctx, key)
	if err != nil {
		return repository.StockVariance{}, err
	}
	return repository.StockVariance{
		BusinessID:       actor.BusinessID,
		ProductID:        variation.ProductID,
		VariationID:      variationID,
		LocationID:       locationID,
		LedgerQuantity:   sum,
		SnapshotQuantity: snap.Quantity,
	}, nil
}

// ScanVariances lista las llaves de la empresa del actor con diferencia distinta de cero.
func (uc *ReconciliationUseCase) ScanVariances(ctx context.Context, actor entity.Actor) ([]repository.StockVariance, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return nil, err
	}
	return uc.Scan(ctx, actor.BusinessID)
}

// Scan variante de sistema (sin actor) usada por el comando de reconciliación.
func (uc *ReconciliationUseCase) Scan(ctx context.Context, businessID string) ([]repository.StockVariance, error) {
	variances, err := uc.read.Ledger.ListVariances(ctx, businessID)
	if err != nil {
		return nil, err
	}
	uc.metrics.VariancesFound(len(variances))
	if len(variances) > 0 {
		uc.log.Warn().Str("business_id", businessID).Int("count", len(variances)).Msg("diferencias entre libro y snapshot")
	}
	return variances, nil
}

// RequestCorrectionInput conteo físico de una llave.
type RequestCorrectionInput struct {
	VariationID   string
	LocationID    string
	PhysicalCount decimal.Decimal
	Reason        string
	TransferID    string // opcional: corrección originada en una diferencia de traslado
}

// RequestCorrection registra el conteo físico. Se aplica de inmediato salvo que supere el umbral
// o la llave haya tenido otra corrección dentro de la ventana de recurrencia; en ese caso queda
// pendiente hasta que otra persona la apruebe.
func (uc *ReconciliationUseCase) RequestCorrection(ctx context.Context, actor entity.Actor, in RequestCorrectionInput) (*entity.InventoryCorrection, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryCorrect); err != nil {
		return nil, err
	}
	if in.PhysicalCount.IsNegative() {
		return nil, fmt.Errorf("%w: conteo físico negativo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: la corrección requiere un motivo", domain.ErrInvalidInput)
	}
	variation, err := resolveKey(ctx, uc.refs, actor.BusinessID, in.VariationID, in.LocationID)
	if err != nil {
		return nil, err
	}
	key := entity.StockKey{VariationID: in.VariationID, LocationID: in.LocationID}
	now := uc.now()

	var correction *entity.InventoryCorrection
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		snap, err := repos.Snapshots.GetForUpdate(ctx, actor.BusinessID, variation.ProductID, key)
		if err != nil {
			return err
		}
		sum, err := repos.Ledger.SumByKey(ctx, key)
		if err != nil {
			return err
		}
		last, err := repos.Corrections.LastAppliedForKey(ctx, key)
		if err != nil {
			return err
		}
		correction = &entity.InventoryCorrection{
			ID:            uuid.New().String(),
			BusinessID:    actor.BusinessID,
			ProductID:     variation.ProductID,
			VariationID:   in.VariationID,
			LocationID:    in.LocationID,
			SystemCount:   snap.Quantity,
			LedgerCount:   sum,
			PhysicalCount: in.PhysicalCount,
			Difference:    in.PhysicalCount.Sub(snap.Quantity),
			Reason:        strings.TrimSpace(in.Reason),
			Status:        entity.CorrectionPending,
			TransferID:    in.TransferID,
			RequestedBy:   actor.ID,
			CreatedAt:     now,
		}
		correction.RecurringVariance = uc.isRecurring(last, now)
		if uc.needsApproval(correction) {
			return repos.Corrections.Create(ctx, correction)
		}
		if err := repos.Corrections.Create(ctx, correction); err != nil {
			return err
		}
		return uc.apply(ctx, repos, correction, actor.ID, now)
	})
	if err != nil {
		return nil, err
	}
	uc.afterCorrection(ctx, actor, correction, "inventory_correction.request")
	return correction, nil
}

// ApproveCorrection aplica una corrección pendiente. Quien aprueba no puede ser quien la pidió.
func (uc *ReconciliationUseCase) ApproveCorrection(ctx context.Context, actor entity.Actor, correctionID string) (*entity.InventoryCorrection, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryApproveCorrect); err != nil {
		return nil, err
	}
	now := uc.now()
	var correction *entity.InventoryCorrection
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		var err error
		correction, err = uc.pendingForUpdate(ctx, repos, actor, correctionID)
		if err != nil {
			return err
		}
		key := entity.StockKey{VariationID: correction.VariationID, LocationID: correction.LocationID}
		snap, err := repos.Snapshots.GetForUpdate(ctx, correction.BusinessID, correction.ProductID, key)
		if err != nil {
			return err
		}
		sum, err := repos.Ledger.SumByKey(ctx, key)
		if err != nil {
			return err
		}
		// el stock pudo moverse mientras estaba pendiente
		correction.SystemCount = snap.Quantity
		correction.LedgerCount = sum
		correction.Difference = correction.PhysicalCount.Sub(snap.Quantity)
		return uc.apply(ctx, repos, correction, actor.ID, now)
	})
	if err != nil {
		return nil, err
	}
	uc.afterCorrection(ctx, actor, correction, "inventory_correction.approve")
	return correction, nil
}

// RejectCorrection descarta una corrección pendiente sin tocar el libro.
func (uc *ReconciliationUseCase) RejectCorrection(ctx context.Context, actor entity.Actor, correctionID, reason string) (*entity.InventoryCorrection, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryApproveCorrect); err != nil {
		return nil, err
	}
	var correction *entity.InventoryCorrection
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		var err error
		correction, err = uc.pendingForUpdate(ctx, repos, actor, correctionID)
		if err != nil {
			return err
		}
		correction.Status = entity.CorrectionRejected
		correction.ApprovedBy = actor.ID
		if r := strings.TrimSpace(reason); r != "" {
			correction.Reason = correction.Reason + " | rechazo: " + r
		}
		return repos.Corrections.Update(ctx, correction)
	})
	if err != nil {
		return nil, err
	}
	uc.afterCorrection(ctx, actor, correction, "inventory_correction.reject")
	return correction, nil
}

// GetCorrection obtiene una corrección de la empresa del actor.
func (uc *ReconciliationUseCase) GetCorrection(ctx context.Context, actor entity.Actor, id string) (*entity.InventoryCorrection, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return nil, err
	}
	c, err := uc.read.Corrections.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// ListCorrections lista correcciones de la empresa; status vacío = todas.
func (uc *ReconciliationUseCase) ListCorrections(ctx context.Context, actor entity.Actor, status entity.CorrectionStatus, limit, offset int) ([]*entity.InventoryCorrection, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return nil, err
	}
	return uc.read.Corrections.ListByBusiness(ctx, actor.BusinessID, status, limit, offset)
}

func (uc *ReconciliationUseCase) pendingForUpdate(ctx context.Context, repos Repos, actor entity.Actor, id string) (*entity.InventoryCorrection, error) {
	c, err := repos.Corrections.GetForUpdate(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.Status != entity.CorrectionPending {
		return nil, fmt.Errorf("%w: la corrección está %s", domain.ErrInvalidState, c.Status)
	}
	if c.RequestedBy == actor.ID {
		return nil, fmt.Errorf("%w: quien solicita una corrección no puede aprobarla", domain.ErrPolicyViolation)
	}
	return c, nil
}

// apply escribe el asiento de corrección y deja libro = snapshot = conteo físico.
// Sin desvío que corregir la corrección se cierra sin asiento.
func (uc *ReconciliationUseCase) apply(ctx context.Context, repos Repos, c *entity.InventoryCorrection, approverID string, now time.Time) error {
	posted, err := uc.writer.Rebase(ctx, repos, LedgerEntry{
		BusinessID:    c.BusinessID,
		ProductID:     c.ProductID,
		Key:           entity.StockKey{VariationID: c.VariationID, LocationID: c.LocationID},
		Type:          entity.StockTxCorrection,
		ReferenceType: entity.RefTypeInventoryCorrection,
		ReferenceID:   c.ID,
		CreatedBy:     approverID,
	}, c.PhysicalCount)
	if err != nil {
		return err
	}
	c.Status = entity.CorrectionApplied
	c.ApprovedBy = approverID
	if posted != nil {
		c.StockTransactionID = posted.ID
	}
	c.AppliedAt = &now
	return repos.Corrections.Update(ctx, c)
}

func (uc *ReconciliationUseCase) needsApproval(c *entity.InventoryCorrection) bool {
	if c.RecurringVariance {
		return true
	}
	return uc.policy.ApprovalThreshold.IsPositive() && c.Difference.Abs().GreaterThanOrEqual(uc.policy.ApprovalThreshold)
}

func (uc *ReconciliationUseCase) isRecurring(last *entity.InventoryCorrection, now time.Time) bool {
	if last == nil || last.AppliedAt == nil || uc.policy.RecurrenceWindow <= 0 {
		return false
	}
	return now.Sub(*last.AppliedAt) <= uc.policy.RecurrenceWindow
}

func (uc *ReconciliationUseCase) afterCorrection(ctx context.Context, actor entity.Actor, c *entity.InventoryCorrection, action string) {
	uc.metrics.CorrectionRecorded(string(c.Status))
	uc.log.Info().
		Str("correction_id", c.ID).
		Str("status", string(c.Status)).
		Str("difference", c.Difference.String()).
		Bool("recurring", c.RecurringVariance).
		Msg("corrección de inventario")
	recordAudit(ctx, uc.audit, uc.log, ports.AuditEntry{
		BusinessID: c.BusinessID,
		Action:     action,
		EntityType: "inventory_correction",
		EntityIDs:  []string{c.ID},
		ActorID:    actor.ID,
		Metadata: map[string]any{
			"variation_id":   c.VariationID,
			"location_id":    c.LocationID,
			"physical_count": c.PhysicalCount.String(),
			"system_count":   c.SystemCount.String(),
			"ledger_count":   c.LedgerCount.String(),
			"status":         string(c.Status),
		},
	})
}
