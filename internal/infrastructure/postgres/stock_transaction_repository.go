package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de inventario (stock_transactions, solo inserción).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const stockTxColumns = `id, business_id, product_id, variation_id, location_id, type, quantity, balance, reference_type, reference_id, created_by, created_at`

// Create inserta un asiento.
func (r *StockTransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	query := `INSERT INTO stock_transactions (` + stockTxColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.BusinessID, tx.ProductID, tx.VariationID, tx.LocationID, string(tx.Type), tx.Quantity, tx.Balance,
		tx.ReferenceType, tx.ReferenceID, nullable(tx.CreatedBy), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// SumByKey suma con signo de los asientos de la llave.
func (r *StockTransactionRepo) SumByKey(ctx context.Context, key entity.StockKey) (decimal.Decimal, error) {
	if !isUUID(key.VariationID) || !isUUID(key.LocationID) {
		return decimal.Zero, nil
	}
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_transactions WHERE variation_id = $1 AND location_id = $2`
	if err := r.q.QueryRow(ctx, query, key.VariationID, key.LocationID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock transactions: %w", err)
	}
	return sum, nil
}

// ListByKey asientos de la llave en orden de inserción.
func (r *StockTransactionRepo) ListByKey(ctx context.Context, key entity.StockKey, limit, offset int) ([]*entity.StockTransaction, error) {
	if !isUUID(key.VariationID) || !isUUID(key.LocationID) {
		return nil, nil
	}
	query := `SELECT ` + stockTxColumns + ` FROM stock_transactions
		WHERE variation_id = $1 AND location_id = $2 ORDER BY seq LIMIT $3 OFFSET $4`
	return r.list(ctx, query, key.VariationID, key.LocationID, limitArg(limit), offset)
}

// ListByReference asientos generados por un documento (traslado, corrección).
func (r *StockTransactionRepo) ListByReference(ctx context.Context, refType, refID string) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + ` FROM stock_transactions WHERE reference_type = $1 AND reference_id = $2 ORDER BY seq`
	return r.list(ctx, query, refType, refID)
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransaction
	for rows.Next() {
		var (
			tx        entity.StockTransaction
			txType    string
			createdBy *string
		)
		err := rows.Scan(&tx.ID, &tx.BusinessID, &tx.ProductID, &tx.VariationID, &tx.LocationID, &txType,
			&tx.Quantity, &tx.Balance, &tx.ReferenceType, &tx.ReferenceID, &createdBy, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		tx.Type = entity.StockTransactionType(txType)
		tx.CreatedBy = deref(createdBy)
		out = append(out, &tx)
	}
	return out, rows.Err()
}

// ListVariances llaves de la empresa donde el snapshot difiere de la suma del libro.
func (r *StockTransactionRepo) ListVariances(ctx context.Context, businessID string) ([]repository.StockVariance, error) {
	query := `
		WITH ledger AS (
			SELECT variation_id, location_id, MAX(product_id::text) AS product_id, SUM(quantity) AS qty
			FROM stock_transactions
			WHERE business_id = $1
			GROUP BY variation_id, location_id
		)
		SELECT COALESCE(s.product_id::text, l.product_id),
		       COALESCE(s.variation_id, l.variation_id),
		       COALESCE(s.location_id, l.location_id),
		       COALESCE(l.qty, 0),
		       COALESCE(s.quantity, 0)
		FROM (SELECT * FROM variation_location_details WHERE business_id = $1) s
		FULL OUTER JOIN ledger l ON l.variation_id = s.variation_id AND l.location_id = s.location_id
		WHERE COALESCE(l.qty, 0) <> COALESCE(s.quantity, 0)
		ORDER BY 2, 3`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list stock variances: %w", err)
	}
	defer rows.Close()
	var out []repository.StockVariance
	for rows.Next() {
		v := repository.StockVariance{BusinessID: businessID}
		if err := rows.Scan(&v.ProductID, &v.VariationID, &v.LocationID, &v.LedgerQuantity, &v.SnapshotQuantity); err != nil {
			return nil, fmt.Errorf("scan stock variance: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
