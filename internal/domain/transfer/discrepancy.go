package transfer

import (
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Discrepancy diferencia entre lo enviado y lo recibido de un ítem.
type Discrepancy struct {
	ItemID      string
	ProductID   string
	VariationID string
	Sent        decimal.Decimal
	Received    decimal.Decimal
	Difference  decimal.Decimal // recibido - enviado
	Notes       string
}

// Receipt lo declarado en destino para un ítem. Quantity nil = lo enviado.
type Receipt struct {
	Quantity *decimal.Decimal
	Serials  []string
	Notes    string
}

// ResolveReceipt valida lo recibido contra lo enviado y devuelve cantidad y seriales definitivos.
// Con seriales enviados, lo recibido debe ser un subconjunto de ellos y coincidir en cantidad.
func ResolveReceipt(item *entity.StockTransferItem, r Receipt) (decimal.Decimal, []string, error) {
	received := item.Quantity
	if r.Quantity != nil {
		received = *r.Quantity
	}
	if received.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("%w: cantidad recibida negativa", domain.ErrInvalidInput)
	}
	if len(item.SerialsSent) == 0 {
		if len(r.Serials) > 0 {
			return decimal.Zero, nil, fmt.Errorf("%w: el ítem no se envió con seriales", domain.ErrInvalidInput)
		}
		return received, nil, nil
	}

	serials := r.Serials
	if serials == nil && received.Equal(item.Quantity) {
		serials = append([]string(nil), item.SerialsSent...)
	}
	if !received.Equal(decimal.NewFromInt(int64(len(serials)))) {
		return decimal.Zero, nil, fmt.Errorf("%w: %d seriales recibidos para una cantidad de %s",
			domain.ErrInvalidInput, len(serials), received.String())
	}
	sent := make(map[string]bool, len(item.SerialsSent))
	for _, id := range item.SerialsSent {
		sent[id] = true
	}
	seen := make(map[string]bool, len(serials))
	for _, id := range serials {
		if !sent[id] {
			return decimal.Zero, nil, fmt.Errorf("%w: serial %s no pertenece al envío", domain.ErrInvalidInput, id)
		}
		if seen[id] {
			return decimal.Zero, nil, fmt.Errorf("%w: serial %s repetido", domain.ErrInvalidInput, id)
		}
		seen[id] = true
	}
	return received, serials, nil
}

// Detect compara enviado vs recibido de un ítem ya verificado.
func Detect(item *entity.StockTransferItem) (Discrepancy, bool) {
	if item.ReceivedQuantity == nil {
		return Discrepancy{}, false
	}
	diff := item.Difference()
	if diff.IsZero() {
		return Discrepancy{}, false
	}
	return Discrepancy{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		VariationID: item.VariationID,
		Sent:        item.Quantity,
		Received:    *item.ReceivedQuantity,
		Difference:  diff,
		Notes:       item.DiscrepancyNotes,
	}, true
}

// UnreceivedSerials seriales enviados que no llegaron.
func UnreceivedSerials(item *entity.StockTransferItem) []string {
	received := make(map[string]bool, len(item.SerialsReceived))
	for _, id := range item.SerialsReceived {
		received[id] = true
	}
	var missing []string
	for _, id := range item.SerialsSent {
		if !received[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
