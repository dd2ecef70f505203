package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	apptransfer "github.com/jhoicas/traslados-api/internal/application/transfer"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// A tiene 50; se trasladan 10 y llegan completos: A=40, B=10.
func TestFlujoCompleto_SinDiferencias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr := f.create(t, item(varPlain, 10))
	assert.Equal(t, entity.TransferStatusDraft, tr.Status)
	assert.Regexp(t, `^TR-\d{8}-[0-9A-F]{6}$`, tr.RefNo)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)), "crear no mueve stock")

	f.toApproved(t, tr.ID)
	sent, err := f.uc.Send(ctx, sender, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusSent, sent.Status)
	assert.True(t, sent.StockDeducted)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(40)))
	assert.True(t, f.qty(t, varPlain, locB).IsZero(), "destino no recibe hasta completar")
	f.requireReconciled(t)

	_, err = f.uc.Arrive(ctx, receiver, tr.ID)
	require.NoError(t, err)
	verified, err := f.uc.VerifyAll(ctx, receiver, tr.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusVerified, verified.Status)
	assert.False(t, verified.HasDiscrepancy)

	done, err := f.uc.Complete(ctx, closer, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(40)))
	assert.True(t, f.qty(t, varPlain, locB).Equal(decimal.NewFromInt(10)))
	f.requireReconciled(t)
	assert.Empty(t, f.notifier.alerts)

	rows, err := f.store.Repos().Ledger.ListByReference(ctx, entity.RefTypeStockTransfer, tr.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.StockTxTransferOut, rows[0].Type)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(-10)))
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, entity.StockTxTransferIn, rows[1].Type)
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(10)))
}

// B tiene 5; se envían 10 y llegan 9: B=14, A=40 y un aviso con diferencia -1.
func TestFlujoCompleto_ConDiferencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.post(t, varPlain, locB, entity.StockTxOpeningStock, 5)

	tr := f.create(t, item(varPlain, 10))
	f.toArrived(t, tr.ID)

	it := tr.Items[0]
	verified, err := f.uc.VerifyItem(ctx, receiver, tr.ID, it.ID, domtransfer.Receipt{Quantity: dec(9), Notes: "caja rota"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusVerified, verified.Status, "único ítem verificado cierra la verificación")
	assert.True(t, verified.HasDiscrepancy)
	assert.True(t, verified.Items[0].HasDiscrepancy)
	assert.True(t, verified.Items[0].Difference().Equal(decimal.NewFromInt(-1)))

	require.Len(t, f.notifier.alerts, 1)
	alert := f.notifier.alerts[0]
	assert.Equal(t, tr.ID, alert.TransferID)
	assert.Equal(t, receiver.ID, alert.VerifiedBy)
	require.Len(t, alert.Items, 1)
	assert.True(t, alert.Items[0].Sent.Equal(decimal.NewFromInt(10)))
	assert.True(t, alert.Items[0].Received.Equal(decimal.NewFromInt(9)))
	assert.True(t, alert.Items[0].Difference.Equal(decimal.NewFromInt(-1)))
	assert.Equal(t, "caja rota", alert.Items[0].Notes)

	// detectar no toca el libro
	assert.True(t, f.qty(t, varPlain, locB).Equal(decimal.NewFromInt(5)))

	_, err = f.uc.Complete(ctx, closer, tr.ID)
	require.NoError(t, err)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(40)))
	assert.True(t, f.qty(t, varPlain, locB).Equal(decimal.NewFromInt(14)))
	f.requireReconciled(t)
}

func TestVerify_FalloDelNotificadorNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("pubsub caído")

	tr := f.create(t, item(varPlain, 10))
	f.toArrived(t, tr.ID)
	verified, err := f.uc.VerifyAll(context.Background(), receiver, tr.ID, map[string]domtransfer.Receipt{
		tr.Items[0].ID: {Quantity: dec(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusVerified, verified.Status)
	assert.Len(t, f.notifier.alerts, 1)
}

func TestVerifyItem_VariosItemsQuedaEnVerifying(t *testing.T) {
	f := newFixture(t)
	f.seedSerials(t, "s1", "s2")
	ctx := context.Background()

	tr := f.create(t, item(varPlain, 4), item(varSerial, 2, "s1", "s2"))
	f.toArrived(t, tr.ID)

	partial, err := f.uc.VerifyItem(ctx, receiver, tr.ID, tr.Items[0].ID, domtransfer.Receipt{})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusVerifying, partial.Status)
	assert.NotNil(t, partial.VerifyingAt)

	_, err = f.uc.VerifyItem(ctx, receiver, tr.ID, tr.Items[0].ID, domtransfer.Receipt{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un ítem no se verifica dos veces")

	_, err = f.uc.Complete(ctx, closer, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se completa con ítems pendientes")

	_, err = f.uc.VerifyItem(ctx, receiver, tr.ID, "no-existe", domtransfer.Receipt{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplete_SerialesNoRecibidosQuedanPerdidos(t *testing.T) {
	f := newFixture(t)
	f.seedSerials(t, "s1", "s2", "s3")
	ctx := context.Background()

	tr := f.create(t, item(varSerial, 3, "s1", "s2", "s3"))
	f.toArrived(t, tr.ID)
	assert.Equal(t, entity.SerialInTransit, f.serial(t, "s2").Status)
	assert.Equal(t, tr.ID, f.serial(t, "s2").CurrentTransferID)

	_, err := f.uc.VerifyAll(ctx, receiver, tr.ID, map[string]domtransfer.Receipt{
		tr.Items[0].ID: {Quantity: dec(2), Serials: []string{"s1", "s3"}},
	})
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, closer, tr.ID)
	require.NoError(t, err)

	for _, id := range []string{"s1", "s3"} {
		s := f.serial(t, id)
		assert.Equal(t, entity.SerialInStock, s.Status)
		assert.Equal(t, locB, s.LocationID)
		assert.Empty(t, s.CurrentTransferID)
	}
	assert.Equal(t, entity.SerialLost, f.serial(t, "s2").Status)
	assert.True(t, f.qty(t, varSerial, locA).IsZero())
	assert.True(t, f.qty(t, varSerial, locB).Equal(decimal.NewFromInt(2)))
	f.requireReconciled(t)
}

// Cancelar después de enviar devuelve lo solicitado a origen y los seriales a stock en A.
func TestCancel_DespuesDeEnviarRestauraOrigen(t *testing.T) {
	f := newFixture(t)
	f.seedSerials(t, "s1", "s2")
	ctx := context.Background()

	tr := f.create(t, item(varPlain, 10), item(varSerial, 2, "s1", "s2"))
	f.toArrived(t, tr.ID)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(40)))

	cancelled, err := f.uc.Cancel(ctx, closer, tr.ID, "mercancía equivocada")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.StockDeducted)
	assert.Equal(t, "mercancía equivocada", cancelled.CancelReason)

	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)))
	assert.True(t, f.qty(t, varSerial, locA).Equal(decimal.NewFromInt(2)))
	assert.True(t, f.qty(t, varPlain, locB).IsZero())
	for _, id := range []string{"s1", "s2"} {
		s := f.serial(t, id)
		assert.Equal(t, entity.SerialInStock, s.Status)
		assert.Equal(t, locA, s.LocationID)
	}
	f.requireReconciled(t)

	_, err = f.uc.Cancel(ctx, closer, tr.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)), "no se restaura dos veces")

	rows, err := f.store.Repos().Ledger.ListByReference(ctx, entity.RefTypeStockTransfer, tr.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 4, "una salida y una reversa por ítem")
}

func TestCancel_EnBorradorNoTocaElLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))

	_, err := f.uc.Cancel(ctx, creator, tr.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")

	_, err = f.uc.Cancel(ctx, closer, tr.ID, "ya no se necesita")
	require.NoError(t, err)
	rows, err := f.store.Repos().Ledger.ListByReference(ctx, entity.RefTypeStockTransfer, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)))
}

func TestCancel_CompletadoNoSePuede(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))
	f.toArrived(t, tr.ID)
	_, err := f.uc.VerifyAll(ctx, receiver, tr.ID, nil)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, closer, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, admin, tr.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Si el stock se vendió entre la creación y el envío, el envío falla sin dejar efectos.
func TestSend_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))
	f.toApproved(t, tr.ID)
	f.post(t, varPlain, locA, entity.StockTxSale, 45)

	_, err := f.uc.Send(ctx, sender, tr.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.Get(ctx, sender, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, got.Status)
	assert.False(t, got.StockDeducted)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(5)))
	f.requireReconciled(t)
}

// Un ítem con stock y otro sin stock: el primero tampoco debe quedar descontado.
func TestSend_FalloParcialNoDejaEfectos(t *testing.T) {
	f := newFixture(t)
	f.seedSerials(t, "s1")
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10), item(varSerial, 1, "s1"))
	f.toApproved(t, tr.ID)
	_, err := f.ledger.PostEntry(ctx, admin, inventory.PostEntryInput{
		VariationID: varSerial, LocationID: locA, Type: entity.StockTxSale,
		Quantity: decimal.NewFromInt(1), SerialIDs: []string{"s1"},
	})
	require.NoError(t, err)

	_, err = f.uc.Send(ctx, sender, tr.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)))
	s1 := f.serial(t, "s1")
	assert.Equal(t, entity.SerialSold, s1.Status)
	assert.Empty(t, s1.CurrentTransferID)
}

func TestSend_ConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 4
	ids := make([]string, n)
	for i := range ids {
		tr := f.create(t, item(varPlain, 20))
		f.toApproved(t, tr.ID)
		ids[i] = tr.ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		refused int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.uc.Send(ctx, sender, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				refused++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, ok, "50 alcanzan para dos envíos de 20")
	assert.Equal(t, 2, refused)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(10)))
	f.requireReconciled(t)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seedSerials(t, "s1", "s2")
	ctx := context.Background()

	cases := []struct {
		name string
		in   apptransfer.CreateInput
		want error
	}{
		{"más de lo disponible", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 51)}}, domain.ErrInsufficientStock},
		{"misma sucursal", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locA, Items: []apptransfer.ItemInput{item(varPlain, 1)}}, domain.ErrInvalidInput},
		{"sin ítems", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB}, domain.ErrInvalidInput},
		{"cantidad cero", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 0)}}, domain.ErrInvalidInput},
		{"variación repetida", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 1), item(varPlain, 2)}}, domain.ErrInvalidInput},
		{"variación inexistente", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item("var-x", 1)}}, domain.ErrNotFound},
		{"sucursal de otra empresa", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locOther, Items: []apptransfer.ItemInput{item(varPlain, 1)}}, domain.ErrNotFound},
		{"seriales incompletos", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varSerial, 2, "s1")}}, domain.ErrInvalidInput},
		{"seriales en variación sin seriales", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 1, "s1")}}, domain.ErrInvalidInput},
		{"serial inexistente", apptransfer.CreateInput{SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varSerial, 1, "s9")}}, domain.ErrNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, creator, c.in)
			assert.ErrorIs(t, err, c.want)
		})
	}

	list, total, err := f.uc.List(ctx, admin, repository.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún intento fallido deja traslados")
	assert.Zero(t, total)
}

func TestUpdateItems_SoloEnBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))

	updated, err := f.uc.UpdateItems(ctx, creator, tr.ID, []apptransfer.ItemInput{item(varPlain, 15)})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Items[0].Quantity.Equal(decimal.NewFromInt(15)))

	_, err = f.uc.UpdateItems(ctx, creator, tr.ID, []apptransfer.ItemInput{item(varPlain, 99)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.uc.Submit(ctx, creator, tr.ID)
	require.NoError(t, err)
	_, err = f.uc.UpdateItems(ctx, creator, tr.ID, []apptransfer.ItemInput{item(varPlain, 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.uc.Get(ctx, creator, tr.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(15)))
}

func TestTransiciones_NoSeSaltanPasos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))

	_, err := f.uc.Send(ctx, sender, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Approve(ctx, approver, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Complete(ctx, closer, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.qty(t, varPlain, locA).Equal(decimal.NewFromInt(50)))
}

func TestTransiciones_CapacidadYEmpresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, item(varPlain, 10))
	f.toApproved(t, tr.ID)

	_, err := f.uc.Send(ctx, seller, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un vendedor no despacha")

	outsider := entity.Actor{ID: "u-ajeno", BusinessID: otherBiz, Roles: []string{entity.RoleAdmin}}
	_, err = f.uc.Send(ctx, outsider, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "otra empresa no ve el traslado")
	_, err = f.uc.Get(ctx, outsider, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSOD_ConfiguracionDeLaEmpresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings := *entity.DefaultSODSettings(bizID)
	settings.AllowCreatorToCheck = false
	settings.AllowSenderToReceive = false
	_, err := f.uc.UpdateSODSettings(ctx, admin, settings)
	require.NoError(t, err)

	boss := entity.Actor{ID: "u-jefe", BusinessID: bizID, Roles: []string{entity.RoleSupervisor, entity.RoleBodeguero}}
	tr, err := f.uc.Create(ctx, boss, apptransfer.CreateInput{
		SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 5)},
	})
	require.NoError(t, err)
	_, err = f.uc.Submit(ctx, boss, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Check(ctx, boss, tr.ID)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)
	_, err = f.uc.Check(ctx, checker, tr.ID)
	require.NoError(t, err)

	// aprobar y enviar siguen permitidos para el creador
	_, err = f.uc.Approve(ctx, boss, tr.ID)
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, boss, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Arrive(ctx, boss, tr.ID)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation, "quien envía no recibe")
	_, err = f.uc.Arrive(ctx, receiver, tr.ID)
	require.NoError(t, err)
}

func TestSOD_RolExento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings := entity.SODSettings{ExemptRoles: []string{entity.RoleAdmin}}
	_, err := f.uc.UpdateSODSettings(ctx, admin, settings)
	require.NoError(t, err)

	tr, err := f.uc.Create(ctx, admin, apptransfer.CreateInput{
		SourceLocationID: locA, DestinationLocationID: locB, Items: []apptransfer.ItemInput{item(varPlain, 5)},
	})
	require.NoError(t, err)
	for _, step := range []func(context.Context, entity.Actor, string) (*entity.StockTransfer, error){
		f.uc.Submit, f.uc.Check, f.uc.Approve, f.uc.Send, f.uc.Arrive,
	} {
		_, err := step(ctx, admin, tr.ID)
		require.NoError(t, err)
	}
	_, err = f.uc.VerifyAll(ctx, admin, tr.ID, nil)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, admin, tr.ID)
	require.NoError(t, err)
}

func TestSODSettings_AdvertenciasNoBloquean(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.GetSODSettings(ctx, creator)
	require.NoError(t, err)
	assert.True(t, res.Settings.AllowCreatorToCheck, "sin configuración propia rige la permisiva")
	assert.Equal(t, 1, res.RequiredStaff)
	assert.Empty(t, res.Warnings)

	res, err = f.uc.UpdateSODSettings(ctx, admin, entity.SODSettings{MinStaffWarningThreshold: 20})
	require.NoError(t, err)
	assert.Equal(t, 4, res.RequiredStaff)
	assert.Equal(t, 8, res.AvailableStaff)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "umbral")

	_, err = f.uc.UpdateSODSettings(ctx, creator, entity.SODSettings{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_FiltrosYAuditoria(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, item(varPlain, 1))
	f.create(t, item(varPlain, 2))
	_, err := f.uc.Submit(ctx, creator, first.ID)
	require.NoError(t, err)

	drafts, total, err := f.uc.List(ctx, admin, repository.TransferFilter{Status: entity.TransferStatusDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, 1, total)

	atB, total, err := f.uc.List(ctx, admin, repository.TransferFilter{LocationID: locB})
	require.NoError(t, err)
	assert.Len(t, atB, 2)
	assert.Equal(t, 2, total)

	// el total no depende de la página
	firstPage, total, err := f.uc.List(ctx, admin, repository.TransferFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, firstPage, 1)
	assert.Equal(t, 2, total)
	lastPage, total, err := f.uc.List(ctx, admin, repository.TransferFilter{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, lastPage)
	assert.Equal(t, 2, total)

	_, _, err = f.uc.List(ctx, admin, repository.TransferFilter{Status: "perdido"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var actions []string
	for _, e := range f.audit.entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "transfer.create")
	assert.Contains(t, actions, "transfer.submit")
}
