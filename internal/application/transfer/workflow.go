package transfer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// Submit draft -> submitted.
func (uc *UseCase) Submit(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionSubmit,
		func(_ context.Context, _ inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			if len(t.Items) == 0 {
				return fmt.Errorf("%w: el traslado no tiene ítems", domain.ErrInvalidInput)
			}
			t.SubmittedBy = actor.ID
			t.SubmittedAt = &now
			return nil
		})
}

// Check submitted -> checked.
func (uc *UseCase) Check(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionCheck,
		func(_ context.Context, _ inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			t.CheckedBy = actor.ID
			t.CheckedAt = &now
			return nil
		})
}

// Approve checked -> approved.
func (uc *UseCase) Approve(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionApprove,
		func(_ context.Context, _ inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			t.ApprovedBy = actor.ID
			t.ApprovedAt = &now
			return nil
		})
}

// Send approved -> sent. Descuenta lo solicitado en origen y pone los seriales en tránsito.
func (uc *UseCase) Send(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionSend,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			for _, it := range lockOrder(t.Items) {
				if _, err := uc.writer.AppendEntry(ctx, repos, inventory.LedgerEntry{
					BusinessID:    t.BusinessID,
					ProductID:     it.ProductID,
					Key:           entity.StockKey{VariationID: it.VariationID, LocationID: t.SourceLocationID},
					Type:          entity.StockTxTransferOut,
					Quantity:      it.Quantity.Neg(),
					ReferenceType: entity.RefTypeStockTransfer,
					ReferenceID:   t.ID,
					CreatedBy:     actor.ID,
				}); err != nil {
					return err
				}
			}
			if err := uc.moveSerials(ctx, repos, t, allSent(t.Items), now, func(s *entity.ProductSerialNumber) error {
				if s.Status != entity.SerialInStock || s.LocationID != t.SourceLocationID {
					return fmt.Errorf("%w: serial %s ya no está disponible en origen", domain.ErrInsufficientStock, s.Serial)
				}
				s.Status = entity.SerialInTransit
				s.CurrentTransferID = t.ID
				return nil
			}); err != nil {
				return err
			}
			t.StockDeducted = true
			t.SentBy = actor.ID
			t.SentAt = &now
			return nil
		})
}

// Arrive sent -> arrived. Solo registra la llegada física.
func (uc *UseCase) Arrive(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionArrive,
		func(_ context.Context, _ inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			t.ArrivedBy = actor.ID
			t.ArrivedAt = &now
			return nil
		})
}

// Complete verified -> completed. Ingresa lo recibido en destino; los seriales no recibidos quedan perdidos.
func (uc *UseCase) Complete(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionComplete,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			for _, it := range lockOrder(t.Items) {
				received := it.Quantity
				if it.ReceivedQuantity != nil {
					received = *it.ReceivedQuantity
				}
				if received.IsZero() {
					continue
				}
				if _, err := uc.writer.AppendEntry(ctx, repos, inventory.LedgerEntry{
					BusinessID:    t.BusinessID,
					ProductID:     it.ProductID,
					Key:           entity.StockKey{VariationID: it.VariationID, LocationID: t.DestinationLocationID},
					Type:          entity.StockTxTransferIn,
					Quantity:      received,
					ReferenceType: entity.RefTypeStockTransfer,
					ReferenceID:   t.ID,
					CreatedBy:     actor.ID,
				}); err != nil {
					return err
				}
			}
			received := make(map[string]bool)
			for _, it := range t.Items {
				for _, id := range it.SerialsReceived {
					received[id] = true
				}
			}
			if err := uc.moveSerials(ctx, repos, t, allSent(t.Items), now, func(s *entity.ProductSerialNumber) error {
				if s.Status != entity.SerialInTransit || s.CurrentTransferID != t.ID {
					return fmt.Errorf("%w: serial %s no está en tránsito en este traslado", domain.ErrInvalidState, s.Serial)
				}
				s.CurrentTransferID = ""
				if received[s.ID] {
					s.Status = entity.SerialInStock
					s.LocationID = t.DestinationLocationID
				} else {
					s.Status = entity.SerialLost
				}
				return nil
			}); err != nil {
				return err
			}
			t.CompletedBy = actor.ID
			t.CompletedAt = &now
			return nil
		})
}

// Cancel cualquier estado no terminal -> cancelled. Si el stock ya salió de origen, lo devuelve
// completo (lo solicitado) y regresa los seriales en tránsito a origen.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, id, reason string) (*entity.StockTransfer, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: la cancelación requiere un motivo", domain.ErrInvalidInput)
	}
	return uc.transition(ctx, actor, id, domtransfer.TransitionCancel,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, now time.Time) error {
			if domtransfer.MovesStock(domtransfer.TransitionCancel, t) {
				if err := uc.restoreSource(ctx, repos, actor, t, now); err != nil {
					return err
				}
				t.StockDeducted = false
			}
			t.CancelledBy = actor.ID
			t.CancelledAt = &now
			t.CancelReason = reason
			return nil
		})
}

func (uc *UseCase) restoreSource(ctx context.Context, repos inventory.Repos, actor entity.Actor, t *entity.StockTransfer, now time.Time) error {
	for _, it := range lockOrder(t.Items) {
		if _, err := uc.writer.AppendEntry(ctx, repos, inventory.LedgerEntry{
			BusinessID:    t.BusinessID,
			ProductID:     it.ProductID,
			Key:           entity.StockKey{VariationID: it.VariationID, LocationID: t.SourceLocationID},
			Type:          entity.StockTxTransferCancel,
			Quantity:      it.Quantity,
			ReferenceType: entity.RefTypeStockTransfer,
			ReferenceID:   t.ID,
			CreatedBy:     actor.ID,
		}); err != nil {
			return err
		}
	}
	return uc.moveSerials(ctx, repos, t, allSent(t.Items), now, func(s *entity.ProductSerialNumber) error {
		if s.Status != entity.SerialInTransit || s.CurrentTransferID != t.ID {
			return nil
		}
		s.Status = entity.SerialInStock
		s.LocationID = t.SourceLocationID
		s.CurrentTransferID = ""
		return nil
	})
}

// moveSerials bloquea los seriales (en orden de ID) y aplica mutate a cada uno.
func (uc *UseCase) moveSerials(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, ids []string, now time.Time, mutate func(*entity.ProductSerialNumber) error) error {
	if len(ids) == 0 {
		return nil
	}
	serials, err := repos.Serials.GetByIDsForUpdate(ctx, t.BusinessID, ids)
	if err != nil {
		return err
	}
	if len(serials) != len(ids) {
		return fmt.Errorf("%w: seriales del traslado %s", domain.ErrNotFound, t.RefNo)
	}
	for _, s := range serials {
		if err := mutate(s); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := repos.Serials.Update(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// lockOrder copia de los ítems ordenada por variación: toda transición bloquea snapshots en el mismo orden.
func lockOrder(items []*entity.StockTransferItem) []*entity.StockTransferItem {
	out := append([]*entity.StockTransferItem(nil), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].VariationID < out[j].VariationID })
	return out
}

func allSent(items []*entity.StockTransferItem) []string {
	var ids []string
	for _, it := range items {
		ids = append(ids, it.SerialsSent...)
	}
	sort.Strings(ids)
	return ids
}
