package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `
	id, business_id, ref_no, source_location_id, destination_location_id, status, notes,
	created_by, submitted_by, checked_by, approved_by, sent_by, arrived_by, verified_by, completed_by, cancelled_by,
	created_at, updated_at, submitted_at, checked_at, approved_at, sent_at, arrived_at, verifying_at, verified_at,
	completed_at, cancelled_at, stock_deducted, has_discrepancy, cancel_reason`

const itemColumns = `
	id, transfer_id, product_id, variation_id, quantity, received_quantity, verified, verified_by, verified_at,
	has_discrepancy, discrepancy_notes, serials_sent, serials_received`

// Create inserta la cabecera y sus ítems.
func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err := r.q.Exec(ctx, query, transferArgs(t)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: referencia %s repetida", domain.ErrConcurrencyConflict, t.RefNo)
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return r.insertItems(ctx, t.ID, t.Items)
}

func transferArgs(t *entity.StockTransfer) []any {
	return []any{
		t.ID, t.BusinessID, t.RefNo, t.SourceLocationID, t.DestinationLocationID, string(t.Status), t.Notes,
		t.CreatedBy, nullable(t.SubmittedBy), nullable(t.CheckedBy), nullable(t.ApprovedBy), nullable(t.SentBy),
		nullable(t.ArrivedBy), nullable(t.VerifiedBy), nullable(t.CompletedBy), nullable(t.CancelledBy),
		t.CreatedAt, t.UpdatedAt, t.SubmittedAt, t.CheckedAt, t.ApprovedAt, t.SentAt, t.ArrivedAt, t.VerifyingAt,
		t.VerifiedAt, t.CompletedAt, t.CancelledAt, t.StockDeducted, t.HasDiscrepancy, t.CancelReason,
	}
}

// GetByID obtiene el traslado con sus ítems; (nil, nil) si no existe en la empresa.
func (r *TransferRepo) GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, businessID, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
func (r *TransferRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, businessID, id, " FOR UPDATE")
}

func (r *TransferRepo) get(ctx context.Context, businessID, id, lock string) (*entity.StockTransfer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE business_id = $1 AND id = $2` + lock
	t, err := scanTransfer(r.q.QueryRow(ctx, query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	items, err := r.itemsFor(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.Items = items[t.ID]
	return t, nil
}

// Update persiste la cabecera (estado, actores, fechas, banderas).
func (r *TransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET
			status = $3, notes = $4, submitted_by = $5, checked_by = $6, approved_by = $7, sent_by = $8,
			arrived_by = $9, verified_by = $10, completed_by = $11, cancelled_by = $12, updated_at = $13,
			submitted_at = $14, checked_at = $15, approved_at = $16, sent_at = $17, arrived_at = $18,
			verifying_at = $19, verified_at = $20, completed_at = $21, cancelled_at = $22,
			stock_deducted = $23, has_discrepancy = $24, cancel_reason = $25
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		t.BusinessID, t.ID, string(t.Status), t.Notes,
		nullable(t.SubmittedBy), nullable(t.CheckedBy), nullable(t.ApprovedBy), nullable(t.SentBy),
		nullable(t.ArrivedBy), nullable(t.VerifiedBy), nullable(t.CompletedBy), nullable(t.CancelledBy), t.UpdatedAt,
		t.SubmittedAt, t.CheckedAt, t.ApprovedAt, t.SentAt, t.ArrivedAt,
		t.VerifyingAt, t.VerifiedAt, t.CompletedAt, t.CancelledAt,
		t.StockDeducted, t.HasDiscrepancy, t.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra e inserta los ítems del traslado.
func (r *TransferRepo) ReplaceItems(ctx context.Context, transferID string, items []*entity.StockTransferItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_transfer_items WHERE transfer_id = $1`, transferID); err != nil {
		return fmt.Errorf("delete stock transfer items: %w", err)
	}
	return r.insertItems(ctx, transferID, items)
}

func (r *TransferRepo) insertItems(ctx context.Context, transferID string, items []*entity.StockTransferItem) error {
	query := `
		INSERT INTO stock_transfer_items (` + itemColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for i, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, transferID, it.ProductID, it.VariationID, it.Quantity, it.ReceivedQuantity, it.Verified,
			nullable(it.VerifiedBy), it.VerifiedAt, it.HasDiscrepancy, it.DiscrepancyNotes,
			nonNil(it.SerialsSent), nonNil(it.SerialsReceived), i,
		)
		if err != nil {
			return fmt.Errorf("insert stock transfer item: %w", err)
		}
	}
	return nil
}

// UpdateItem persiste el resultado de la verificación de un ítem.
func (r *TransferRepo) UpdateItem(ctx context.Context, it *entity.StockTransferItem) error {
	query := `
		UPDATE stock_transfer_items SET
			quantity = $3, received_quantity = $4, verified = $5, verified_by = $6, verified_at = $7,
			has_discrepancy = $8, discrepancy_notes = $9, serials_sent = $10, serials_received = $11
		WHERE transfer_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		it.TransferID, it.ID, it.Quantity, it.ReceivedQuantity, it.Verified, nullable(it.VerifiedBy), it.VerifiedAt,
		it.HasDiscrepancy, it.DiscrepancyNotes, nonNil(it.SerialsSent), nonNil(it.SerialsReceived),
	)
	if err != nil {
		return fmt.Errorf("update stock transfer item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista traslados de la empresa, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	where, args, ok := transferWhere(f)
	if !ok {
		return nil, nil
	}
	args = append(args, limitArg(f.Limit), f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM stock_transfers WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		transferColumns, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.StockTransfer
		ids  []string
	)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		t.Items = items[t.ID]
	}
	return list, nil
}

// Count total de traslados que cumplen el filtro, sin paginar.
func (r *TransferRepo) Count(ctx context.Context, f repository.TransferFilter) (int, error) {
	where, args, ok := transferWhere(f)
	if !ok {
		return 0, nil
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_transfers WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count stock transfers: %w", err)
	}
	return total, nil
}

// transferWhere arma las condiciones del filtro; ok=false si ningún traslado puede cumplirlo.
func transferWhere(f repository.TransferFilter) (string, []any, bool) {
	var (
		conds = []string{"business_id = $1"}
		args  = []any{f.BusinessID}
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.LocationID != "" {
		if !isUUID(f.LocationID) {
			return "", nil, false
		}
		args = append(args, f.LocationID)
		conds = append(conds, fmt.Sprintf("(source_location_id = $%d OR destination_location_id = $%d)", len(args), len(args)))
	}
	return strings.Join(conds, " AND "), args, true
}

func (r *TransferRepo) itemsFor(ctx context.Context, transferIDs []string) (map[string][]*entity.StockTransferItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_transfer_items WHERE transfer_id = ANY($1::uuid[]) ORDER BY transfer_id, position`
	rows, err := r.q.Query(ctx, query, transferIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]*entity.StockTransferItem, len(transferIDs))
	for rows.Next() {
		var (
			it         entity.StockTransferItem
			received   *decimal.Decimal
			verifiedBy *string
			verifiedAt *time.Time
		)
		err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.VariationID, &it.Quantity, &received,
			&it.Verified, &verifiedBy, &verifiedAt, &it.HasDiscrepancy, &it.DiscrepancyNotes,
			&it.SerialsSent, &it.SerialsReceived)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer item: %w", err)
		}
		it.ReceivedQuantity = received
		it.VerifiedBy = deref(verifiedBy)
		it.VerifiedAt = verifiedAt
		if len(it.SerialsSent) == 0 {
			it.SerialsSent = nil
		}
		if len(it.SerialsReceived) == 0 {
			it.SerialsReceived = nil
		}
		out[it.TransferID] = append(out[it.TransferID], &it)
	}
	return out, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var (
		t                                           entity.StockTransfer
		status                                      string
		submitted, checked, approved, sent, arrived *string
		verified, completed, cancelled              *string
	)
	err := row.Scan(
		&t.ID, &t.BusinessID, &t.RefNo, &t.SourceLocationID, &t.DestinationLocationID, &status, &t.Notes,
		&t.CreatedBy, &submitted, &checked, &approved, &sent, &arrived, &verified, &completed, &cancelled,
		&t.CreatedAt, &t.UpdatedAt, &t.SubmittedAt, &t.CheckedAt, &t.ApprovedAt, &t.SentAt, &t.ArrivedAt,
		&t.VerifyingAt, &t.VerifiedAt, &t.CompletedAt, &t.CancelledAt,
		&t.StockDeducted, &t.HasDiscrepancy, &t.CancelReason,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	t.SubmittedBy, t.CheckedBy, t.ApprovedBy = deref(submitted), deref(checked), deref(approved)
	t.SentBy, t.ArrivedBy, t.VerifiedBy = deref(sent), deref(arrived), deref(verified)
	t.CompletedBy, t.CancelledBy = deref(completed), deref(cancelled)
	return &t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
