package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// LedgerUseCase consultas del libro y registro de asientos que no pertenecen a un traslado
// (saldo inicial, compras, ventas, ajustes). Los traslados y correcciones tienen su propio flujo.
type LedgerUseCase struct {
	txRunner TxRunner
	read     Repos
	refs     References
	perms    ports.PermissionChecker
	writer   *LedgerWriter
	audit    ports.AuditSink
	log      zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	read Repos,
	refs References,
	perms ports.PermissionChecker,
	writer *LedgerWriter,
	audit ports.AuditSink,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		read:     read,
		refs:     refs,
		perms:    perms,
		writer:   writer,
		audit:    audit,
		log:      log.With().Str("component", "ledger").Logger(),
	}
}

// PostEntryInput asiento manual. Quantity se interpreta según el tipo:
// opening_stock y purchase suman, sale resta, adjustment lleva su propio signo.
// En variaciones serializadas un ingreso trae Serials (unidades nuevas) y una salida
// trae SerialIDs (unidades existentes en la sucursal), uno por unidad.
type PostEntryInput struct {
	VariationID   string
	LocationID    string
	Type          entity.StockTransactionType
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Serials       []string
	SerialIDs     []string
}

// PostEntry registra un asiento manual a través del escritor del libro.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, actor entity.Actor, in PostEntryInput) (*entity.StockTransaction, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryAdjust); err != nil {
		return nil, err
	}
	delta, err := signedQuantity(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	variation, err := resolveKey(ctx, uc.refs, actor.BusinessID, in.VariationID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if err := checkEntrySerials(variation, in, delta); err != nil {
		return nil, err
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = entity.RefTypeManual
	}

	var posted *entity.StockTransaction
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		if err := moveEntrySerials(ctx, repos, actor.BusinessID, variation, in, time.Now()); err != nil {
			return err
		}
		var err error
		posted, err = uc.writer.AppendEntry(ctx, repos, LedgerEntry{
			BusinessID:    actor.BusinessID,
			ProductID:     variation.ProductID,
			Key:           entity.StockKey{VariationID: in.VariationID, LocationID: in.LocationID},
			Type:          in.Type,
			Quantity:      delta,
			ReferenceType: refType,
			ReferenceID:   in.ReferenceID,
			CreatedBy:     actor.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	recordAudit(ctx, uc.audit, uc.log, ports.AuditEntry{
		BusinessID: actor.BusinessID,
		Action:     "stock." + string(in.Type),
		EntityType: "stock_transaction",
		EntityIDs:  []string{posted.ID},
		ActorID:    actor.ID,
		Metadata: map[string]any{
			"variation_id": in.VariationID,
			"location_id":  in.LocationID,
			"quantity":     delta.String(),
			"balance":      posted.Balance.String(),
			"serials":      len(in.Serials) + len(in.SerialIDs),
		},
	})
	return posted, nil
}

// History devuelve los asientos de la llave en orden de creación.
func (uc *LedgerUseCase) History(ctx context.Context, actor entity.Actor, variationID, locationID string, limit, offset int) ([]*entity.StockTransaction, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return nil, err
	}
	if _, err := resolveKey(ctx, uc.refs, actor.BusinessID, variationID, locationID); err != nil {
		return nil, err
	}
	return uc.read.Ledger.ListByKey(ctx, entity.StockKey{VariationID: variationID, LocationID: locationID}, limit, offset)
}

// Stock devuelve el snapshot de la llave (cero si nunca tuvo movimientos).
func (uc *LedgerUseCase) Stock(ctx context.Context, actor entity.Actor, variationID, locationID string) (*entity.VariationLocationDetails, error) {
	if err := ports.Require(ctx, uc.perms, actor, entity.CapInventoryView); err != nil {
		return nil, err
	}
	if _, err := resolveKey(ctx, uc.refs, actor.BusinessID, variationID, locationID); err != nil {
		return nil, err
	}
	return uc.read.Snapshots.Get(ctx, entity.StockKey{VariationID: variationID, LocationID: locationID})
}

// checkEntrySerials exige un serial por unidad en variaciones serializadas y ninguno en las demás.
func checkEntrySerials(variation *entity.ProductVariation, in PostEntryInput, delta decimal.Decimal) error {
	if !variation.TracksSerials {
		if len(in.Serials) > 0 || len(in.SerialIDs) > 0 {
			return fmt.Errorf("%w: la variación %s no maneja seriales", domain.ErrInvalidInput, variation.ID)
		}
		return nil
	}
	list := in.SerialIDs
	if delta.IsPositive() {
		if len(in.SerialIDs) > 0 {
			return fmt.Errorf("%w: un ingreso registra seriales nuevos, no unidades existentes", domain.ErrInvalidInput)
		}
		list = in.Serials
	} else if len(in.Serials) > 0 {
		return fmt.Errorf("%w: una salida indica unidades existentes, no seriales nuevos", domain.ErrInvalidInput)
	}
	if !delta.Abs().Equal(decimal.NewFromInt(int64(len(list)))) {
		return fmt.Errorf("%w: la variación %s requiere un serial por unidad", domain.ErrInvalidInput, variation.ID)
	}
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if v == "" {
			return fmt.Errorf("%w: serial vacío", domain.ErrInvalidInput)
		}
		if seen[v] {
			return fmt.Errorf("%w: serial %s repetido", domain.ErrInvalidInput, v)
		}
		seen[v] = true
	}
	return nil
}

// moveEntrySerials da de alta las unidades de un ingreso en la sucursal, o marca las de una
// salida como vendidas (sale) o perdidas (adjustment). Corre en la misma transacción que el asiento.
func moveEntrySerials(ctx context.Context, repos Repos, businessID string, variation *entity.ProductVariation, in PostEntryInput, now time.Time) error {
	if !variation.TracksSerials {
		return nil
	}
	for _, code := range in.Serials {
		err := repos.Serials.Create(ctx, &entity.ProductSerialNumber{
			ID:          uuid.New().String(),
			BusinessID:  businessID,
			ProductID:   variation.ProductID,
			VariationID: variation.ID,
			Serial:      code,
			Status:      entity.SerialInStock,
			LocationID:  in.LocationID,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
	}
	if len(in.SerialIDs) == 0 {
		return nil
	}
	serials, err := repos.Serials.GetByIDsForUpdate(ctx, businessID, in.SerialIDs)
	if err != nil {
		return err
	}
	if len(serials) != len(in.SerialIDs) {
		return fmt.Errorf("%w: seriales inexistentes en la variación %s", domain.ErrNotFound, variation.ID)
	}
	status := entity.SerialSold
	if in.Type == entity.StockTxAdjustment {
		status = entity.SerialLost
	}
	for _, s := range serials {
		if s.VariationID != variation.ID {
			return fmt.Errorf("%w: serial %s pertenece a otra variación", domain.ErrInvalidInput, s.Serial)
		}
		if s.Status != entity.SerialInStock || s.LocationID != in.LocationID {
			return fmt.Errorf("%w: serial %s no está disponible en la sucursal", domain.ErrInsufficientStock, s.Serial)
		}
		s.Status = status
		s.UpdatedAt = now
		if err := repos.Serials.Update(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func signedQuantity(t entity.StockTransactionType, qty decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case entity.StockTxOpeningStock, entity.StockTxPurchase:
		if !qty.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		return qty, nil
	case entity.StockTxSale:
		if !qty.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		return qty.Neg(), nil
	case entity.StockTxAdjustment:
		if qty.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: ajuste con cantidad cero", domain.ErrInvalidInput)
		}
		return qty, nil
	}
	return decimal.Zero, fmt.Errorf("%w: el tipo %q no admite asientos manuales", domain.ErrInvalidInput, t)
}

// resolveKey valida que variación y sucursal existan y pertenezcan a la empresa.
func resolveKey(ctx context.Context, refs References, businessID, variationID, locationID string) (*entity.ProductVariation, error) {
	if variationID == "" || locationID == "" {
		return nil, fmt.Errorf("%w: variación y sucursal son obligatorias", domain.ErrInvalidInput)
	}
	loc, err := refs.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.BusinessID != businessID {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, locationID)
	}
	variation, err := refs.Variations.GetByID(ctx, variationID)
	if err != nil {
		return nil, err
	}
	if variation == nil || variation.BusinessID != businessID {
		return nil, fmt.Errorf("%w: variación %s", domain.ErrNotFound, variationID)
	}
	return variation, nil
}

// recordAudit registra en auditoría sin afectar el resultado de la operación.
func recordAudit(ctx context.Context, sink ports.AuditSink, log zerolog.Logger, entry ports.AuditEntry) {
	if sink == nil {
		return
	}
	if err := sink.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", entry.Action).Msg("no se pudo registrar auditoría")
	}
}
