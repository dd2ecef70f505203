package memory

import "github.com/jhoicas/traslados-api/internal/domain/entity"

func cloneTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	cp := *t
	cp.Items = make([]*entity.StockTransferItem, len(t.Items))
	for i, it := range t.Items {
		cp.Items[i] = cloneItem(it)
	}
	return &cp
}

func cloneItem(it *entity.StockTransferItem) *entity.StockTransferItem {
	cp := *it
	if it.ReceivedQuantity != nil {
		q := *it.ReceivedQuantity
		cp.ReceivedQuantity = &q
	}
	cp.SerialsSent = append([]string(nil), it.SerialsSent...)
	cp.SerialsReceived = append([]string(nil), it.SerialsReceived...)
	return &cp
}
