// Package notify despacha los avisos de diferencias en la recepción de traslados.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

// EventDiscrepancy tipo de evento publicado en el tópico.
const EventDiscrepancy = "transfer.discrepancy_detected"

const defaultPublishTimeout = 15 * time.Second

var _ ports.DiscrepancyNotifier = (*PubSubNotifier)(nil)

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

// PubSubNotifier publica cada aviso como un mensaje JSON en un tópico de Pub/Sub.
type PubSubNotifier struct {
	pub     publisher
	timeout time.Duration
	stop    func()
}

// NewPubSubNotifier publica en topic usando el cliente dado.
func NewPubSubNotifier(client *pubsub.Client, topic string, timeout time.Duration) (*PubSubNotifier, error) {
	if client == nil {
		return nil, errors.New("pubsub client is required")
	}
	if topic == "" {
		return nil, errors.New("pubsub topic is required")
	}
	p := client.Publisher(topic)
	n := newPubSubNotifier(&gcpPublisher{p: p}, timeout)
	n.stop = p.Stop
	return n, nil
}

// Stop envía los mensajes pendientes y libera el publicador.
func (n *PubSubNotifier) Stop() {
	if n.stop != nil {
		n.stop()
	}
}

func newPubSubNotifier(pub publisher, timeout time.Duration) *PubSubNotifier {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &PubSubNotifier{pub: pub, timeout: timeout}
}

// NotifyDiscrepancy publica y espera la confirmación del servidor.
func (n *PubSubNotifier) NotifyDiscrepancy(ctx context.Context, alert ports.DiscrepancyAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal discrepancy alert: %w", err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type":  EventDiscrepancy,
			"business_id": alert.BusinessID,
			"transfer_id": alert.TransferID,
			"ref_no":      alert.RefNo,
			"items":       fmt.Sprintf("%d", len(alert.Items)),
		},
	}
	publishCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	result := n.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish discrepancy alert %s: %w", alert.RefNo, err)
	}
	return nil
}

type gcpPublisher struct {
	p *pubsub.Publisher
}

func (g *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	return g.p.Publish(ctx, msg)
}
