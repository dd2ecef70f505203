package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

var _ ports.DiscrepancyNotifier = (*LogNotifier)(nil)

// LogNotifier deja el aviso en el log; sirve cuando no hay Pub/Sub configurado.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador sobre el logger dado.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyDiscrepancy(_ context.Context, alert ports.DiscrepancyAlert) error {
	items := zerolog.Arr()
	for _, it := range alert.Items {
		items.Dict(zerolog.Dict().
			Str("variation_id", it.VariationID).
			Str("sent", it.Sent.String()).
			Str("received", it.Received.String()).
			Str("difference", it.Difference.String()))
	}
	n.log.Warn().
		Str("event", EventDiscrepancy).
		Str("business_id", alert.BusinessID).
		Str("transfer_id", alert.TransferID).
		Str("ref_no", alert.RefNo).
		Str("verified_by", alert.VerifiedBy).
		Array("items", items).
		Msg("diferencia en recepción de traslado")
	return nil
}
