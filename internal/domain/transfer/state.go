// Package transfer contiene las reglas puras del ciclo de vida de un traslado entre sucursales:
// tabla de transiciones, segregación de funciones y detección de diferencias en la recepción.
// No depende de persistencia; los casos de uso en application/transfer lo orquestan.
package transfer

import (
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// Transition nombre de una operación del ciclo de vida.
type Transition string

const (
	TransitionUpdateItems Transition = "update_items"
	TransitionSubmit      Transition = "submit"
	TransitionCheck       Transition = "check"
	TransitionApprove     Transition = "approve"
	TransitionSend        Transition = "send"
	TransitionArrive      Transition = "arrive"
	TransitionVerify      Transition = "verify"
	TransitionComplete    Transition = "complete"
	TransitionCancel      Transition = "cancel"
)

type edge struct {
	from []entity.TransferStatus
	to   entity.TransferStatus
}

// Orden estricto; la única salida lateral es cancel.
var edges = map[Transition]edge{
	TransitionUpdateItems: {from: []entity.TransferStatus{entity.TransferStatusDraft}, to: entity.TransferStatusDraft},
	TransitionSubmit:      {from: []entity.TransferStatus{entity.TransferStatusDraft}, to: entity.TransferStatusSubmitted},
	TransitionCheck:       {from: []entity.TransferStatus{entity.TransferStatusSubmitted}, to: entity.TransferStatusChecked},
	TransitionApprove:     {from: []entity.TransferStatus{entity.TransferStatusChecked}, to: entity.TransferStatusApproved},
	TransitionSend:        {from: []entity.TransferStatus{entity.TransferStatusApproved}, to: entity.TransferStatusSent},
	TransitionArrive:      {from: []entity.TransferStatus{entity.TransferStatusSent}, to: entity.TransferStatusArrived},
	// verify deja el traslado en verifying; el caso de uso lo avanza a verified cuando todos los ítems están verificados.
	TransitionVerify:   {from: []entity.TransferStatus{entity.TransferStatusArrived, entity.TransferStatusVerifying}, to: entity.TransferStatusVerifying},
	TransitionComplete: {from: []entity.TransferStatus{entity.TransferStatusVerified}, to: entity.TransferStatusCompleted},
}

// Next devuelve el estado destino de aplicar tr sobre current, o ErrInvalidState.
func Next(current entity.TransferStatus, tr Transition) (entity.TransferStatus, error) {
	if tr == TransitionCancel {
		if current.IsTerminal() {
			return "", fmt.Errorf("%w: no se puede cancelar un traslado %s", domain.ErrInvalidState, current)
		}
		return entity.TransferStatusCancelled, nil
	}
	e, ok := edges[tr]
	if !ok {
		return "", fmt.Errorf("%w: transición desconocida %q", domain.ErrInvalidInput, tr)
	}
	for _, from := range e.from {
		if from == current {
			return e.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s no permitido desde %s", domain.ErrInvalidState, tr, current)
}

// Capability capacidad base que exige cada transición.
func Capability(tr Transition) string {
	switch tr {
	case TransitionUpdateItems, TransitionSubmit:
		return entity.CapTransferCreate
	case TransitionCheck:
		return entity.CapTransferCheck
	case TransitionApprove:
		return entity.CapTransferApprove
	case TransitionSend:
		return entity.CapTransferSend
	case TransitionArrive, TransitionVerify:
		return entity.CapTransferReceive
	case TransitionComplete:
		return entity.CapTransferComplete
	case TransitionCancel:
		return entity.CapTransferCancel
	}
	return ""
}

// MovesStock indica si la transición toca el libro y el snapshot.
func MovesStock(tr Transition, t *entity.StockTransfer) bool {
	switch tr {
	case TransitionSend, TransitionComplete:
		return true
	case TransitionCancel:
		return t != nil && t.StockDeducted
	}
	return false
}
