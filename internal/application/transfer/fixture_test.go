package transfer_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/ports"
	apptransfer "github.com/jhoicas/traslados-api/internal/application/transfer"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/infrastructure/authz"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
)

const (
	bizID     = "biz-1"
	otherBiz  = "biz-2"
	locA      = "loc-a"
	locB      = "loc-b"
	locOther  = "loc-x"
	varPlain  = "var-camisa-m"
	varSerial = "var-celular"
	prodPlain = "prod-camisa"
	prodSer   = "prod-celular"
)

var (
	admin    = entity.Actor{ID: "u-admin", BusinessID: bizID, Roles: []string{entity.RoleAdmin}}
	creator  = entity.Actor{ID: "u-creador", BusinessID: bizID, Roles: []string{entity.RoleBodeguero}}
	checker  = entity.Actor{ID: "u-revisor", BusinessID: bizID, Roles: []string{entity.RoleSupervisor}}
	approver = entity.Actor{ID: "u-aprobador", BusinessID: bizID, Roles: []string{entity.RoleSupervisor}}
	sender   = entity.Actor{ID: "u-despacho", BusinessID: bizID, Roles: []string{entity.RoleBodeguero}}
	receiver = entity.Actor{ID: "u-recibe", BusinessID: bizID, Roles: []string{entity.RoleBodeguero}}
	closer   = entity.Actor{ID: "u-cierra", BusinessID: bizID, Roles: []string{entity.RoleSupervisor}}
	seller   = entity.Actor{ID: "u-vende", BusinessID: bizID, Roles: []string{entity.RoleVendedor}}
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []ports.DiscrepancyAlert
	err    error
}

func (n *recordingNotifier) NotifyDiscrepancy(_ context.Context, a ports.DiscrepancyAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

func (a *recordingAudit) Record(_ context.Context, e ports.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return nil
}

type fixture struct {
	store    *memory.Store
	uc       *apptransfer.UseCase
	ledger   *inventory.LedgerUseCase
	writer   *inventory.LedgerWriter
	notifier *recordingNotifier
	audit    *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddLocation(entity.Location{ID: locA, BusinessID: bizID, Name: "Centro", IsActive: true})
	store.AddLocation(entity.Location{ID: locB, BusinessID: bizID, Name: "Norte", IsActive: true})
	store.AddLocation(entity.Location{ID: locOther, BusinessID: otherBiz, Name: "Ajena", IsActive: true})
	store.AddVariation(entity.ProductVariation{ID: varPlain, BusinessID: bizID, ProductID: prodPlain, SKU: "CAM-M"})
	store.AddVariation(entity.ProductVariation{ID: varSerial, BusinessID: bizID, ProductID: prodSer, SKU: "CEL-01", TracksSerials: true})
	for _, a := range []entity.Actor{admin, creator, checker, approver, sender, receiver, closer, seller} {
		store.AddStaff(a)
	}

	perms := authz.New(nil, store)
	writer := inventory.NewLedgerWriter(nil)
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}

	f := &fixture{
		store:    store,
		writer:   writer,
		notifier: notifier,
		audit:    audit,
		ledger:   inventory.NewLedgerUseCase(store, store.Repos(), store.References(), perms, writer, audit, zerolog.Nop()),
		uc: apptransfer.NewUseCase(apptransfer.Dependencies{
			TxRunner:    store,
			Read:        store.Repos(),
			Refs:        store.References(),
			SODSettings: store.SODSettings(),
			Permissions: perms,
			Writer:      writer,
			Notifier:    notifier,
			Audit:       audit,
			Logger:      zerolog.Nop(),
		}),
	}
	f.post(t, varPlain, locA, entity.StockTxOpeningStock, 50)
	return f
}

func (f *fixture) post(t *testing.T, variationID, locationID string, typ entity.StockTransactionType, qty int64) {
	t.Helper()
	_, err := f.ledger.PostEntry(context.Background(), admin, inventory.PostEntryInput{
		VariationID: variationID,
		LocationID:  locationID,
		Type:        typ,
		Quantity:    decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

// seedSerials deja n celulares serializados en stock en la sucursal A, con IDs fijos.
// Asiento y unidades se escriben en la misma transacción, como lo haría una carga inicial.
func (f *fixture) seedSerials(t *testing.T, ids ...string) {
	t.Helper()
	err := f.store.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		for _, id := range ids {
			if err := repos.Serials.Create(ctx, &entity.ProductSerialNumber{
				ID:          id,
				BusinessID:  bizID,
				ProductID:   prodSer,
				VariationID: varSerial,
				Serial:      "SN-" + id,
				Status:      entity.SerialInStock,
				LocationID:  locA,
			}); err != nil {
				return err
			}
		}
		_, err := f.writer.AppendEntry(ctx, repos, inventory.LedgerEntry{
			BusinessID: bizID,
			ProductID:  prodSer,
			Key:        entity.StockKey{VariationID: varSerial, LocationID: locA},
			Type:       entity.StockTxOpeningStock,
			Quantity:   decimal.NewFromInt(int64(len(ids))),
			CreatedBy:  admin.ID,
		})
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) qty(t *testing.T, variationID, locationID string) decimal.Decimal {
	t.Helper()
	s, err := f.store.Repos().Snapshots.Get(context.Background(), entity.StockKey{VariationID: variationID, LocationID: locationID})
	require.NoError(t, err)
	return s.Quantity
}

func (f *fixture) serial(t *testing.T, id string) *entity.ProductSerialNumber {
	t.Helper()
	got, err := f.store.Repos().Serials.GetByIDs(context.Background(), bizID, []string{id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	return got[0]
}

// requireReconciled exige que libro y snapshot coincidan en toda la empresa.
func (f *fixture) requireReconciled(t *testing.T) {
	t.Helper()
	variances, err := f.store.Repos().Ledger.ListVariances(context.Background(), bizID)
	require.NoError(t, err)
	require.Empty(t, variances, "libro y snapshot deben coincidir")
}

func (f *fixture) create(t *testing.T, items ...apptransfer.ItemInput) *entity.StockTransfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), creator, apptransfer.CreateInput{
		SourceLocationID:      locA,
		DestinationLocationID: locB,
		Items:                 items,
	})
	require.NoError(t, err)
	return tr
}

// toApproved lleva un traslado de draft a approved con personas distintas en cada paso.
func (f *fixture) toApproved(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Submit(ctx, creator, id)
	require.NoError(t, err)
	_, err = f.uc.Check(ctx, checker, id)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, approver, id)
	require.NoError(t, err)
}

// toArrived lleva un traslado hasta arrived (stock ya descontado en origen).
func (f *fixture) toArrived(t *testing.T, id string) {
	t.Helper()
	f.toApproved(t, id)
	ctx := context.Background()
	_, err := f.uc.Send(ctx, sender, id)
	require.NoError(t, err)
	_, err = f.uc.Arrive(ctx, receiver, id)
	require.NoError(t, err)
}

func item(variationID string, qty int64, serials ...string) apptransfer.ItemInput {
	return apptransfer.ItemInput{VariationID: variationID, Quantity: decimal.NewFromInt(qty), SerialIDs: serials}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
