package transfer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/transfer"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestResolveReceipt_SinCantidadAsumeLoEnviado(t *testing.T) {
	item := &entity.StockTransferItem{Quantity: decimal.NewFromInt(10)}

	qty, serials, err := transfer.ResolveReceipt(item, transfer.Receipt{})
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, serials)
}

func TestResolveReceipt_CantidadNegativa(t *testing.T) {
	item := &entity.StockTransferItem{Quantity: decimal.NewFromInt(10)}

	_, _, err := transfer.ResolveReceipt(item, transfer.Receipt{Quantity: dec(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolveReceipt_Seriales(t *testing.T) {
	item := &entity.StockTransferItem{
		Quantity:    decimal.NewFromInt(3),
		SerialsSent: []string{"s1", "s2", "s3"},
	}

	qty, serials, err := transfer.ResolveReceipt(item, transfer.Receipt{})
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, []string{"s1", "s2", "s3"}, serials)

	qty, serials, err = transfer.ResolveReceipt(item, transfer.Receipt{Quantity: dec(2), Serials: []string{"s1", "s3"}})
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, []string{"s1", "s3"}, serials)

	_, _, err = transfer.ResolveReceipt(item, transfer.Receipt{Quantity: dec(2), Serials: []string{"s1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad y seriales deben coincidir")

	_, _, err = transfer.ResolveReceipt(item, transfer.Receipt{Quantity: dec(1), Serials: []string{"otro"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "serial ajeno al envío")

	_, _, err = transfer.ResolveReceipt(item, transfer.Receipt{Quantity: dec(2), Serials: []string{"s1", "s1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "serial repetido")
}

func TestDetect(t *testing.T) {
	item := &entity.StockTransferItem{ID: "i1", Quantity: decimal.NewFromInt(10)}
	_, ok := transfer.Detect(item)
	assert.False(t, ok, "sin verificar no hay diferencia")

	item.ReceivedQuantity = dec(10)
	_, ok = transfer.Detect(item)
	assert.False(t, ok)

	item.ReceivedQuantity = dec(8)
	d, ok := transfer.Detect(item)
	require.True(t, ok)
	assert.True(t, d.Difference.Equal(decimal.NewFromInt(-2)))
}

func TestUnreceivedSerials(t *testing.T) {
	item := &entity.StockTransferItem{SerialsSent: []string{"s1", "s2", "s3"}, SerialsReceived: []string{"s2"}}
	assert.Equal(t, []string{"s1", "s3"}, transfer.UnreceivedSerials(item))
}
