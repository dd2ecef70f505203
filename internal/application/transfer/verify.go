package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// VerifyItem registra lo recibido de un ítem. Cuando todos los ítems quedan verificados el traslado
// pasa a verified y, si hubo diferencias, se despacha un único aviso después del commit.
func (uc *UseCase) VerifyItem(ctx context.Context, actor entity.Actor, id, itemID string, receipt domtransfer.Receipt) (*entity.StockTransfer, error) {
	t, err := uc.transition(ctx, actor, id, domtransfer.TransitionVerify,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			item := t.ItemByID(itemID)
			if item == nil {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
			}
			if item.Verified {
				return fmt.Errorf("%w: el ítem ya fue verificado", domain.ErrInvalidState)
			}
			if err := uc.verifyItem(ctx, repos, actor, item, receipt, now); err != nil {
				return err
			}
			markVerification(actor, t, now)
			return nil
		})
	if err != nil {
		return nil, err
	}
	uc.dispatchDiscrepancies(ctx, t)
	return t, nil
}

// VerifyAll verifica todos los ítems pendientes. Los que no vienen en receipts se reciben completos.
func (uc *UseCase) VerifyAll(ctx context.Context, actor entity.Actor, id string, receipts map[string]domtransfer.Receipt) (*entity.StockTransfer, error) {
	t, err := uc.transition(ctx, actor, id, domtransfer.TransitionVerify,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			for itemID := range receipts {
				if t.ItemByID(itemID) == nil {
					return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
				}
			}
			for _, item := range t.Items {
				if item.Verified {
					continue
				}
				if err := uc.verifyItem(ctx, repos, actor, item, receipts[item.ID], now); err != nil {
					return err
				}
			}
			markVerification(actor, t, now)
			return nil
		})
	if err != nil {
		return nil, err
	}
	uc.dispatchDiscrepancies(ctx, t)
	return t, nil
}

func (uc *UseCase) verifyItem(ctx context.Context, repos inventory.Repos, actor entity.Actor, item *entity.StockTransferItem, r domtransfer.Receipt, now time.Time) error {
	qty, serials, err := domtransfer.ResolveReceipt(item, r)
	if err != nil {
		return err
	}
	item.ReceivedQuantity = &qty
	item.SerialsReceived = serials
	item.Verified = true
	item.VerifiedBy = actor.ID
	item.VerifiedAt = &now
	item.DiscrepancyNotes = r.Notes
	_, item.HasDiscrepancy = domtransfer.Detect(item)
	return repos.Transfers.UpdateItem(ctx, item)
}

// markVerification deja el traslado en verifying o, si ya no quedan ítems, en verified.
func markVerification(actor entity.Actor, t *entity.StockTransfer, now time.Time) {
	if t.VerifyingAt == nil {
		t.VerifyingAt = &now
	}
	for _, it := range t.Items {
		if it.HasDiscrepancy {
			t.HasDiscrepancy = true
		}
	}
	if t.AllItemsVerified() {
		t.Status = entity.TransferStatusVerified
		t.VerifiedBy = actor.ID
		t.VerifiedAt = &now
	}
}

// dispatchDiscrepancies avisa una sola vez, al llegar a verified. Los fallos se registran y se ignoran.
func (uc *UseCase) dispatchDiscrepancies(ctx context.Context, t *entity.StockTransfer) {
	if t.Status != entity.TransferStatusVerified || !t.HasDiscrepancy {
		return
	}
	alert := ports.DiscrepancyAlert{
		BusinessID:            t.BusinessID,
		TransferID:            t.ID,
		RefNo:                 t.RefNo,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		VerifiedBy:            t.VerifiedBy,
	}
	if t.VerifiedAt != nil {
		alert.VerifiedAt = *t.VerifiedAt
	}
	for _, it := range t.Items {
		d, ok := domtransfer.Detect(it)
		if !ok {
			continue
		}
		alert.Items = append(alert.Items, ports.DiscrepancyItem{
			ItemID:      d.ItemID,
			ProductID:   d.ProductID,
			VariationID: d.VariationID,
			Sent:        d.Sent,
			Received:    d.Received,
			Difference:  d.Difference,
			Notes:       d.Notes,
		})
	}
	uc.metrics.DiscrepancyDetected(len(alert.Items))
	uc.log.Warn().Str("transfer_id", t.ID).Str("ref_no", t.RefNo).Int("items", len(alert.Items)).Msg("traslado con diferencias en la recepción")
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyDiscrepancy(ctx, alert); err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", t.ID).Msg("no se pudo notificar la diferencia")
	}
}
