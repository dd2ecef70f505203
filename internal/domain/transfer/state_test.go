package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/transfer"
)

func TestNext_RecorridoCompleto(t *testing.T) {
	steps := []struct {
		tr   transfer.Transition
		want entity.TransferStatus
	}{
		{transfer.TransitionSubmit, entity.TransferStatusSubmitted},
		{transfer.TransitionCheck, entity.TransferStatusChecked},
		{transfer.TransitionApprove, entity.TransferStatusApproved},
		{transfer.TransitionSend, entity.TransferStatusSent},
		{transfer.TransitionArrive, entity.TransferStatusArrived},
		{transfer.TransitionVerify, entity.TransferStatusVerifying},
		{transfer.TransitionVerify, entity.TransferStatusVerifying},
	}
	status := entity.TransferStatusDraft
	for _, s := range steps {
		next, err := transfer.Next(status, s.tr)
		require.NoError(t, err, "%s desde %s", s.tr, status)
		assert.Equal(t, s.want, next)
		status = next
	}

	next, err := transfer.Next(entity.TransferStatusVerified, transfer.TransitionComplete)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, next)
}

func TestNext_SaltarPasoEsEstadoInvalido(t *testing.T) {
	cases := []struct {
		from entity.TransferStatus
		tr   transfer.Transition
	}{
		{entity.TransferStatusDraft, transfer.TransitionApprove},
		{entity.TransferStatusSubmitted, transfer.TransitionSend},
		{entity.TransferStatusApproved, transfer.TransitionArrive},
		{entity.TransferStatusSent, transfer.TransitionComplete},
		{entity.TransferStatusArrived, transfer.TransitionComplete},
		{entity.TransferStatusSubmitted, transfer.TransitionUpdateItems},
		{entity.TransferStatusCompleted, transfer.TransitionSend},
	}
	for _, c := range cases {
		_, err := transfer.Next(c.from, c.tr)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "%s desde %s", c.tr, c.from)
	}
}

func TestNext_CancelarDesdeCualquierEstadoNoTerminal(t *testing.T) {
	for _, s := range []entity.TransferStatus{
		entity.TransferStatusDraft,
		entity.TransferStatusSubmitted,
		entity.TransferStatusChecked,
		entity.TransferStatusApproved,
		entity.TransferStatusSent,
		entity.TransferStatusArrived,
		entity.TransferStatusVerifying,
		entity.TransferStatusVerified,
	} {
		next, err := transfer.Next(s, transfer.TransitionCancel)
		require.NoError(t, err, s)
		assert.Equal(t, entity.TransferStatusCancelled, next)
	}

	_, err := transfer.Next(entity.TransferStatusCompleted, transfer.TransitionCancel)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = transfer.Next(entity.TransferStatusCancelled, transfer.TransitionCancel)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestNext_TransicionDesconocida(t *testing.T) {
	_, err := transfer.Next(entity.TransferStatusDraft, transfer.Transition("teleport"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovesStock(t *testing.T) {
	assert.True(t, transfer.MovesStock(transfer.TransitionSend, nil))
	assert.True(t, transfer.MovesStock(transfer.TransitionComplete, nil))
	assert.False(t, transfer.MovesStock(transfer.TransitionApprove, nil))
	assert.False(t, transfer.MovesStock(transfer.TransitionCancel, &entity.StockTransfer{}))
	assert.True(t, transfer.MovesStock(transfer.TransitionCancel, &entity.StockTransfer{StockDeducted: true}))
}

func TestCapability(t *testing.T) {
	assert.Equal(t, entity.CapTransferReceive, transfer.Capability(transfer.TransitionArrive))
	assert.Equal(t, entity.CapTransferReceive, transfer.Capability(transfer.TransitionVerify))
	assert.Equal(t, entity.CapTransferCancel, transfer.Capability(transfer.TransitionCancel))
	assert.Empty(t, transfer.Capability(transfer.Transition("x")))
}
