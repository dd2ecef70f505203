package memory

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var (
	_ repository.LocationRepository    = LocationRepo{}
	_ repository.VariationRepository   = VariationRepo{}
	_ repository.SODSettingsRepository = SODSettingsRepo{}
)

// LocationRepo sucursales registradas con AddLocation.
type LocationRepo struct{ s *Store }

func (r LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.refMu.RLock()
	defer r.s.refMu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// VariationRepo variaciones registradas con AddVariation.
type VariationRepo struct{ s *Store }

func (r VariationRepo) GetByID(_ context.Context, id string) (*entity.ProductVariation, error) {
	r.s.refMu.RLock()
	defer r.s.refMu.RUnlock()
	pv, ok := r.s.variations[id]
	if !ok {
		return nil, nil
	}
	cp := *pv
	return &cp, nil
}

// SODSettingsRepo configuración SOD por empresa.
type SODSettingsRepo struct{ s *Store }

// SODSettings repositorio de configuración SOD del almacén.
func (s *Store) SODSettings() SODSettingsRepo { return SODSettingsRepo{s} }

func (r SODSettingsRepo) Get(_ context.Context, businessID string) (*entity.SODSettings, error) {
	r.s.refMu.RLock()
	defer r.s.refMu.RUnlock()
	cur, ok := r.s.sod[businessID]
	if !ok {
		return nil, nil
	}
	cp := *cur
	cp.ExemptRoles = append([]string(nil), cur.ExemptRoles...)
	return &cp, nil
}

func (r SODSettingsRepo) Upsert(_ context.Context, settings *entity.SODSettings) error {
	r.s.refMu.Lock()
	defer r.s.refMu.Unlock()
	cp := *settings
	cp.ExemptRoles = append([]string(nil), settings.ExemptRoles...)
	r.s.sod[settings.BusinessID] = &cp
	return nil
}
