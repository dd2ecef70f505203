// Package memory implementa los repositorios y el TxRunner en memoria. Cada Run trabaja sobre una
// copia del estado y solo la publica si fn termina sin error, igual que un commit/rollback.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

type state struct {
	transfers   map[string]*entity.StockTransfer
	snapshots   map[entity.StockKey]*entity.VariationLocationDetails
	ledger      []*entity.StockTransaction
	serials     map[string]*entity.ProductSerialNumber
	corrections map[string]*entity.InventoryCorrection
}

func newState() *state {
	return &state{
		transfers:   make(map[string]*entity.StockTransfer),
		snapshots:   make(map[entity.StockKey]*entity.VariationLocationDetails),
		serials:     make(map[string]*entity.ProductSerialNumber),
		corrections: make(map[string]*entity.InventoryCorrection),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.snapshots {
		cp := *v
		c.snapshots[k] = &cp
	}
	// el libro es de solo inserción: basta copiar el slice
	c.ledger = append([]*entity.StockTransaction(nil), s.ledger...)
	for k, v := range s.serials {
		cp := *v
		c.serials[k] = &cp
	}
	for k, v := range s.corrections {
		cp := *v
		c.corrections[k] = &cp
	}
	return c
}

// Store estado transaccional más datos de referencia.
type Store struct {
	mu sync.Mutex
	st *state

	refMu      sync.RWMutex
	locations  map[string]*entity.Location
	variations map[string]*entity.ProductVariation
	sod        map[string]*entity.SODSettings
	staff      map[string][]entity.Actor
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		st:         newState(),
		locations:  make(map[string]*entity.Location),
		variations: make(map[string]*entity.ProductVariation),
		sod:        make(map[string]*entity.SODSettings),
		staff:      make(map[string][]entity.Actor),
	}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run serializa las unidades de trabajo: fn ve una copia y el estado solo cambia si no hay error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	v := &view{store: s, tx: work}
	if err := fn(ctx, v.repos()); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción (lecturas).
func (s *Store) Repos() inventory.Repos {
	return (&view{store: s}).repos()
}

// References lecturas de sucursales y variaciones.
func (s *Store) References() inventory.References {
	return inventory.References{Locations: LocationRepo{s}, Variations: VariationRepo{s}}
}

// view acceso al estado: la copia de la transacción en curso o, fuera de ella, el estado publicado.
type view struct {
	store *Store
	tx    *state
}

func (v *view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) repos() inventory.Repos {
	return inventory.Repos{
		Transfers:   &TransferRepo{v},
		Snapshots:   &SnapshotRepo{v},
		Ledger:      &LedgerRepo{v},
		Serials:     &SerialRepo{v},
		Corrections: &CorrectionRepo{v},
	}
}

// AddLocation registra una sucursal.
func (s *Store) AddLocation(l entity.Location) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.locations[l.ID] = &l
}

// AddVariation registra una variación de producto.
func (s *Store) AddVariation(pv entity.ProductVariation) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.variations[pv.ID] = &pv
}

// AddStaff registra personal activo de una empresa (para el conteo de capacidades).
func (s *Store) AddStaff(a entity.Actor) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.staff[a.BusinessID] = append(s.staff[a.BusinessID], a)
}

// CountByRoles cuenta el personal de la empresa con al menos uno de los roles.
func (s *Store) CountByRoles(_ context.Context, businessID string, roles []string) (int, error) {
	s.refMu.RLock()
	defer s.refMu.RUnlock()
	n := 0
	for _, a := range s.staff[businessID] {
		for _, r := range roles {
			if a.HasRole(r) {
				n++
				break
			}
		}
	}
	return n, nil
}
