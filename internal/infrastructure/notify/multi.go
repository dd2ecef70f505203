package notify

import (
	"context"

	"go.uber.org/multierr"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

var _ ports.DiscrepancyNotifier = Multi(nil)

// Multi reparte el aviso a todos los notificadores; un fallo no detiene a los demás.
type Multi []ports.DiscrepancyNotifier

func (m Multi) NotifyDiscrepancy(ctx context.Context, alert ports.DiscrepancyAlert) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.NotifyDiscrepancy(ctx, alert))
	}
	return err
}
