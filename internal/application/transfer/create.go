package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// ItemInput una línea solicitada. SerialIDs es obligatorio para variaciones serializadas.
type ItemInput struct {
	VariationID string
	Quantity    decimal.Decimal
	SerialIDs   []string
}

// CreateInput datos para crear un traslado en borrador.
type CreateInput struct {
	SourceLocationID      string
	DestinationLocationID string
	Notes                 string
	Items                 []ItemInput
}

// Create crea un traslado en draft. No mueve stock; valida disponibilidad en origen y seriales.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in CreateInput) (*entity.StockTransfer, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapTransferCreate); err != nil {
		return nil, err
	}
	if err := uc.validateLocations(ctx, actor.BusinessID, in.SourceLocationID, in.DestinationLocationID); err != nil {
		return nil, err
	}
	now := uc.now()
	t := &entity.StockTransfer{
		ID:                    uuid.New().String(),
		BusinessID:            actor.BusinessID,
		RefNo:                 uc.refNo(now),
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Status:                entity.TransferStatusDraft,
		Notes:                 strings.TrimSpace(in.Notes),
		CreatedBy:             actor.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		items, err := uc.buildItems(ctx, repos, t, in.Items)
		if err != nil {
			return err
		}
		t.Items = items
		return repos.Transfers.Create(ctx, t)
	})
	uc.metrics.ObserveTransition("create", outcome(err))
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", t.ID).Str("ref_no", t.RefNo).Str("actor_id", actor.ID).Int("items", len(t.Items)).Msg("traslado creado")
	uc.recordAudit(ctx, ports.AuditEntry{
		BusinessID: t.BusinessID,
		Action:     "transfer.create",
		EntityType: entity.RefTypeStockTransfer,
		EntityIDs:  []string{t.ID},
		ActorID:    actor.ID,
		Metadata: map[string]any{
			"ref_no":      t.RefNo,
			"source":      t.SourceLocationID,
			"destination": t.DestinationLocationID,
		},
	})
	return t, nil
}

// UpdateItems reemplaza los ítems de un traslado en draft y vuelve a validarlos.
func (uc *UseCase) UpdateItems(ctx context.Context, actor entity.Actor, id string, items []ItemInput) (*entity.StockTransfer, error) {
	return uc.transition(ctx, actor, id, domtransfer.TransitionUpdateItems,
		func(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, _ time.Time) error {
			built, err := uc.buildItems(ctx, repos, t, items)
			if err != nil {
				return err
			}
			if err := repos.Transfers.ReplaceItems(ctx, t.ID, built); err != nil {
				return err
			}
			t.Items = built
			return nil
		})
}

func (uc *UseCase) validateLocations(ctx context.Context, businessID, sourceID, destinationID string) error {
	if sourceID == "" || destinationID == "" {
		return fmt.Errorf("%w: origen y destino son obligatorios", domain.ErrInvalidInput)
	}
	if sourceID == destinationID {
		return fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	for _, id := range []string{sourceID, destinationID} {
		loc, err := uc.refs.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil || loc.BusinessID != businessID {
			return fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, id)
		}
		if !loc.IsActive {
			return fmt.Errorf("%w: sucursal %s inactiva", domain.ErrInvalidInput, id)
		}
	}
	return nil
}

// buildItems valida las líneas contra el origen: cantidad positiva, una línea por variación,
// cantidad <= snapshot en origen y, si la variación es serializada, seriales en stock en origen.
func (uc *UseCase) buildItems(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, in []ItemInput) ([]*entity.StockTransferItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el traslado necesita al menos un ítem", domain.ErrInvalidInput)
	}
	seenVariations := make(map[string]bool, len(in))
	seenSerials := make(map[string]bool)
	items := make([]*entity.StockTransferItem, 0, len(in))
	for _, line := range in {
		if line.VariationID == "" {
			return nil, fmt.Errorf("%w: ítem sin variación", domain.ErrInvalidInput)
		}
		if seenVariations[line.VariationID] {
			return nil, fmt.Errorf("%w: variación %s repetida", domain.ErrInvalidInput, line.VariationID)
		}
		seenVariations[line.VariationID] = true
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad debe ser positiva (variación %s)", domain.ErrInvalidInput, line.VariationID)
		}

		variation, err := uc.refs.Variations.GetByID(ctx, line.VariationID)
		if err != nil {
			return nil, err
		}
		if variation == nil || variation.BusinessID != t.BusinessID {
			return nil, fmt.Errorf("%w: variación %s", domain.ErrNotFound, line.VariationID)
		}

		snap, err := repos.Snapshots.Get(ctx, entity.StockKey{VariationID: line.VariationID, LocationID: t.SourceLocationID})
		if err != nil {
			return nil, err
		}
		if line.Quantity.GreaterThan(snap.Quantity) {
			return nil, fmt.Errorf("%w: disponible %s, solicitado %s (variación %s)",
				domain.ErrInsufficientStock, snap.Quantity.String(), line.Quantity.String(), line.VariationID)
		}

		if err := uc.validateSerials(ctx, repos, t, variation, line, seenSerials); err != nil {
			return nil, err
		}

		items = append(items, &entity.StockTransferItem{
			ID:          uuid.New().String(),
			TransferID:  t.ID,
			ProductID:   variation.ProductID,
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
			SerialsSent: append([]string(nil), line.SerialIDs...),
		})
	}
	return items, nil
}

func (uc *UseCase) validateSerials(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, variation *entity.ProductVariation, line ItemInput, seen map[string]bool) error {
	if !variation.TracksSerials {
		if len(line.SerialIDs) > 0 {
			return fmt.Errorf("%w: la variación %s no maneja seriales", domain.ErrInvalidInput, variation.ID)
		}
		return nil
	}
	if !line.Quantity.Equal(decimal.NewFromInt(int64(len(line.SerialIDs)))) {
		return fmt.Errorf("%w: la variación %s requiere un serial por unidad", domain.ErrInvalidInput, variation.ID)
	}
	for _, id := range line.SerialIDs {
		if seen[id] {
			return fmt.Errorf("%w: serial %s repetido", domain.ErrInvalidInput, id)
		}
		seen[id] = true
	}
	serials, err := repos.Serials.GetByIDs(ctx, t.BusinessID, line.SerialIDs)
	if err != nil {
		return err
	}
	if len(serials) != len(line.SerialIDs) {
		return fmt.Errorf("%w: seriales inexistentes en la variación %s", domain.ErrNotFound, variation.ID)
	}
	for _, s := range serials {
		if s.VariationID != variation.ID {
			return fmt.Errorf("%w: serial %s pertenece a otra variación", domain.ErrInvalidInput, s.Serial)
		}
		if s.Status != entity.SerialInStock || s.LocationID != t.SourceLocationID {
			return fmt.Errorf("%w: serial %s no está disponible en origen", domain.ErrInsufficientStock, s.Serial)
		}
	}
	return nil
}
