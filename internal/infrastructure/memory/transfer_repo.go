package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados en memoria.
type TransferRepo struct{ v *view }

func (r *TransferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.v.with(func(st *state) error {
		st.transfers[t.ID] = cloneTransfer(t)
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, businessID, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := r.v.with(func(st *state) error {
		if t, ok := st.transfers[id]; ok && t.BusinessID == businessID {
			out = cloneTransfer(t)
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID: la transacción ya tiene el estado en exclusiva.
func (r *TransferRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *TransferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *t
		cp.Items = cur.Items
		st.transfers[t.ID] = &cp
		return nil
	})
}

func (r *TransferRepo) ReplaceItems(_ context.Context, transferID string, items []*entity.StockTransferItem) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.transfers[transferID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Items = make([]*entity.StockTransferItem, len(items))
		for i, it := range items {
			cur.Items[i] = cloneItem(it)
		}
		return nil
	})
}

func (r *TransferRepo) UpdateItem(_ context.Context, item *entity.StockTransferItem) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.transfers[item.TransferID]
		if !ok {
			return domain.ErrNotFound
		}
		for i, it := range cur.Items {
			if it.ID == item.ID {
				cur.Items[i] = cloneItem(item)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	out, err := r.matching(f)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *TransferRepo) Count(_ context.Context, f repository.TransferFilter) (int, error) {
	out, err := r.matching(f)
	return len(out), err
}

func (r *TransferRepo) matching(f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	err := r.v.with(func(st *state) error {
		for _, t := range st.transfers {
			if t.BusinessID != f.BusinessID {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.LocationID != "" && t.SourceLocationID != f.LocationID && t.DestinationLocationID != f.LocationID {
				continue
			}
			out = append(out, cloneTransfer(t))
		}
		return nil
	})
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
