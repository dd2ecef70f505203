package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

type fakeResult struct{ err error }

func (r fakeResult) Get(context.Context) (string, error) { return "msg-1", r.err }

type fakePublisher struct {
	msgs []*pubsub.Message
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, msg *pubsub.Message) publishResult {
	p.msgs = append(p.msgs, msg)
	return fakeResult{err: p.err}
}

type failingNotifier struct{ err error }

func (f failingNotifier) NotifyDiscrepancy(context.Context, ports.DiscrepancyAlert) error { return f.err }

func sampleAlert() ports.DiscrepancyAlert {
	return ports.DiscrepancyAlert{
		BusinessID: "biz-1",
		TransferID: "tr-1",
		RefNo:      "TR-20260105-ABC123",
		Items: []ports.DiscrepancyItem{{
			ItemID: "it-1", VariationID: "var-1",
			Sent: decimal.NewFromInt(10), Received: decimal.NewFromInt(9), Difference: decimal.NewFromInt(-1),
		}},
		VerifiedBy: "user-b",
		VerifiedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestPubSubNotifier_PublicaJSONConAtributos(t *testing.T) {
	pub := &fakePublisher{}
	n := newPubSubNotifier(pub, time.Second)

	require.NoError(t, n.NotifyDiscrepancy(context.Background(), sampleAlert()))
	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, EventDiscrepancy, msg.Attributes["event_type"])
	assert.Equal(t, "tr-1", msg.Attributes["transfer_id"])
	assert.Equal(t, "1", msg.Attributes["items"])

	var decoded ports.DiscrepancyAlert
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "TR-20260105-ABC123", decoded.RefNo)
	require.Len(t, decoded.Items, 1)
	assert.True(t, decoded.Items[0].Difference.Equal(decimal.NewFromInt(-1)))
}

func TestPubSubNotifier_PropagaErrorDePublicacion(t *testing.T) {
	n := newPubSubNotifier(&fakePublisher{err: errors.New("unavailable")}, 0)
	err := n.NotifyDiscrepancy(context.Background(), sampleAlert())
	assert.ErrorContains(t, err, "unavailable")
}

func TestNewPubSubNotifier_ValidaParametros(t *testing.T) {
	_, err := NewPubSubNotifier(nil, "alerts", time.Second)
	assert.Error(t, err)
}

func TestLogNotifier_EscribeEvento(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.NotifyDiscrepancy(context.Background(), sampleAlert()))
	out := buf.String()
	assert.Contains(t, out, EventDiscrepancy)
	assert.Contains(t, out, `"ref_no":"TR-20260105-ABC123"`)
	assert.Contains(t, out, `"difference":"-1"`)
}

func TestMulti_AcumulaErroresYSigue(t *testing.T) {
	var buf bytes.Buffer
	m := Multi{
		failingNotifier{err: errors.New("a")},
		NewLogNotifier(zerolog.New(&buf)),
		failingNotifier{err: errors.New("b")},
		nil,
	}
	err := m.NotifyDiscrepancy(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.NotEmpty(t, buf.String())
}

func TestMulti_SinErrores(t *testing.T) {
	assert.NoError(t, Multi{}.NotifyDiscrepancy(context.Background(), sampleAlert()))
}
