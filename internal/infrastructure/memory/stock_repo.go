package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var (
	_ repository.SnapshotRepository         = (*SnapshotRepo)(nil)
	_ repository.StockTransactionRepository = (*LedgerRepo)(nil)
	_ repository.SerialRepository           = (*SerialRepo)(nil)
	_ repository.CorrectionRepository       = (*CorrectionRepo)(nil)
)

// SnapshotRepo snapshot de stock en memoria.
type SnapshotRepo struct{ v *view }

func (r *SnapshotRepo) Get(_ context.Context, key entity.StockKey) (*entity.VariationLocationDetails, error) {
	out := &entity.VariationLocationDetails{VariationID: key.VariationID, LocationID: key.LocationID, Quantity: decimal.Zero}
	err := r.v.with(func(st *state) error {
		if s, ok := st.snapshots[key]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *SnapshotRepo) GetForUpdate(_ context.Context, businessID, productID string, key entity.StockKey) (*entity.VariationLocationDetails, error) {
	var out *entity.VariationLocationDetails
	err := r.v.with(func(st *state) error {
		s, ok := st.snapshots[key]
		if !ok {
			s = &entity.VariationLocationDetails{
				BusinessID:  businessID,
				ProductID:   productID,
				VariationID: key.VariationID,
				LocationID:  key.LocationID,
				Quantity:    decimal.Zero,
			}
			st.snapshots[key] = s
		}
		cp := *s
		out = &cp
		return nil
	})
	return out, err
}

func (r *SnapshotRepo) Save(_ context.Context, snap *entity.VariationLocationDetails) error {
	return r.v.with(func(st *state) error {
		key := entity.StockKey{VariationID: snap.VariationID, LocationID: snap.LocationID}
		cur, ok := st.snapshots[key]
		if !ok || cur.Version != snap.Version {
			return domain.ErrConcurrencyConflict
		}
		cp := *snap
		cp.Version++
		st.snapshots[key] = &cp
		snap.Version = cp.Version
		return nil
	})
}

// SetQuantity escribe el snapshot sin pasar por el libro. Solo para simular desvíos en tests.
func (s *Store) SetQuantity(key entity.StockKey, businessID, productID string, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.st.snapshots[key]
	if !ok {
		cur = &entity.VariationLocationDetails{BusinessID: businessID, ProductID: productID, VariationID: key.VariationID, LocationID: key.LocationID}
		s.st.snapshots[key] = cur
	}
	cur.Quantity = qty
	cur.Version++
}

// SerialsOf copia de las unidades de una variación ordenadas por serial. Solo para tests.
func (s *Store) SerialsOf(variationID string) []*entity.ProductSerialNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ProductSerialNumber
	for _, sn := range s.st.serials {
		if sn.VariationID == variationID {
			cp := *sn
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

// LedgerRepo libro de inventario en memoria.
type LedgerRepo struct{ v *view }

func (r *LedgerRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	return r.v.with(func(st *state) error {
		cp := *tx
		st.ledger = append(st.ledger, &cp)
		return nil
	})
}

func (r *LedgerRepo) SumByKey(_ context.Context, key entity.StockKey) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.with(func(st *state) error {
		for _, tx := range st.ledger {
			if tx.VariationID == key.VariationID && tx.LocationID == key.LocationID {
				sum = sum.Add(tx.Quantity)
			}
		}
		return nil
	})
	return sum, err
}

func (r *LedgerRepo) ListByKey(_ context.Context, key entity.StockKey, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.v.with(func(st *state) error {
		for _, tx := range st.ledger {
			if tx.VariationID == key.VariationID && tx.LocationID == key.LocationID {
				cp := *tx
				out = append(out, &cp)
			}
		}
		return nil
	})
	return page(out, limit, offset), err
}

func (r *LedgerRepo) ListByReference(_ context.Context, refType, refID string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.v.with(func(st *state) error {
		for _, tx := range st.ledger {
			if tx.ReferenceType == refType && tx.ReferenceID == refID {
				cp := *tx
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) ListVariances(_ context.Context, businessID string) ([]repository.StockVariance, error) {
	byKey := make(map[entity.StockKey]*repository.StockVariance)
	err := r.v.with(func(st *state) error {
		for _, tx := range st.ledger {
			if tx.BusinessID != businessID {
				continue
			}
			key := entity.StockKey{VariationID: tx.VariationID, LocationID: tx.LocationID}
			v, ok := byKey[key]
			if !ok {
				v = &repository.StockVariance{BusinessID: businessID, ProductID: tx.ProductID, VariationID: key.VariationID, LocationID: key.LocationID}
				byKey[key] = v
			}
			v.LedgerQuantity = v.LedgerQuantity.Add(tx.Quantity)
		}
		for key, s := range st.snapshots {
			if s.BusinessID != businessID {
				continue
			}
			v, ok := byKey[key]
			if !ok {
				v = &repository.StockVariance{BusinessID: businessID, ProductID: s.ProductID, VariationID: key.VariationID, LocationID: key.LocationID}
				byKey[key] = v
			}
			v.SnapshotQuantity = s.Quantity
		}
		return nil
	})
	var out []repository.StockVariance
	for _, v := range byKey {
		if !v.Variance().IsZero() {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return entity.StockKey{VariationID: out[i].VariationID, LocationID: out[i].LocationID}.
			Less(entity.StockKey{VariationID: out[j].VariationID, LocationID: out[j].LocationID})
	})
	return out, err
}

// SerialRepo seriales en memoria.
type SerialRepo struct{ v *view }

func (r *SerialRepo) Create(_ context.Context, s *entity.ProductSerialNumber) error {
	return r.v.with(func(st *state) error {
		for _, other := range st.serials {
			if other.BusinessID == s.BusinessID && other.VariationID == s.VariationID && other.Serial == s.Serial {
				return fmt.Errorf("%w: serial %s ya registrado", domain.ErrInvalidInput, s.Serial)
			}
		}
		cp := *s
		st.serials[s.ID] = &cp
		return nil
	})
}

func (r *SerialRepo) GetByIDs(_ context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error) {
	var out []*entity.ProductSerialNumber
	err := r.v.with(func(st *state) error {
		for _, id := range ids {
			if s, ok := st.serials[id]; ok && s.BusinessID == businessID {
				cp := *s
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *SerialRepo) GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return r.GetByIDs(ctx, businessID, sorted)
}

func (r *SerialRepo) Update(_ context.Context, s *entity.ProductSerialNumber) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.serials[s.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *s
		st.serials[s.ID] = &cp
		return nil
	})
}

// CorrectionRepo correcciones en memoria.
type CorrectionRepo struct{ v *view }

func (r *CorrectionRepo) Create(_ context.Context, c *entity.InventoryCorrection) error {
	return r.v.with(func(st *state) error {
		cp := *c
		st.corrections[c.ID] = &cp
		return nil
	})
}

func (r *CorrectionRepo) GetByID(_ context.Context, businessID, id string) (*entity.InventoryCorrection, error) {
	var out *entity.InventoryCorrection
	err := r.v.with(func(st *state) error {
		if c, ok := st.corrections[id]; ok && c.BusinessID == businessID {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CorrectionRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.InventoryCorrection, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *CorrectionRepo) Update(_ context.Context, c *entity.InventoryCorrection) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.corrections[c.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *c
		st.corrections[c.ID] = &cp
		return nil
	})
}

func (r *CorrectionRepo) LastAppliedForKey(_ context.Context, key entity.StockKey) (*entity.InventoryCorrection, error) {
	var out *entity.InventoryCorrection
	err := r.v.with(func(st *state) error {
		for _, c := range st.corrections {
			if c.Status != entity.CorrectionApplied || c.AppliedAt == nil {
				continue
			}
			if c.VariationID != key.VariationID || c.LocationID != key.LocationID {
				continue
			}
			if out == nil || c.AppliedAt.After(*out.AppliedAt) {
				cp := *c
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *CorrectionRepo) ListByBusiness(_ context.Context, businessID string, status entity.CorrectionStatus, limit, offset int) ([]*entity.InventoryCorrection, error) {
	var out []*entity.InventoryCorrection
	err := r.v.with(func(st *state) error {
		for _, c := range st.corrections {
			if c.BusinessID != businessID || (status != "" && c.Status != status) {
				continue
			}
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), err
}
