package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// WebhookStore is the part of the webhook repository the dispatcher needs.
type WebhookStore interface {
	Get(name string) (*model.Webhook, error)
	ListEnabled() ([]*model.Webhook, error)
	RecordDelivery(name string, lastErr error) error
}

// maxParallelDeliveries bounds the concurrent webhook posts of one Send.
const maxParallelDeliveries = 8

// Dispatcher fans notifications out to every enabled webhook.
type Dispatcher struct {
	store  WebhookStore
	client *HTTPClient
	now    func() time.Time
}

// NewDispatcher creates a dispatcher that delivers through client.
func NewDispatcher(store WebhookStore, client *HTTPClient) *Dispatcher {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout, DefaultMaxRetries)
	}
	return &Dispatcher{store: store, client: client, now: time.Now}
}

// DispatchResult is the delivery outcome for one webhook.
type DispatchResult struct {
	WebhookName string
	Success     bool
	StatusCode  int
	Attempts    int
	Duration    time.Duration
	Error       error
}

// Send delivers n to all enabled webhooks concurrently. It returns nil when
// no webhook is enabled.
func (d *Dispatcher) Send(ctx context.Context, n *model.Notification) []DispatchResult {
	webhooks, err := d.store.ListEnabled()
	if err != nil {
		return []DispatchResult{{
			WebhookName: "all",
			Error:       fmt.Errorf("list webhooks: %w", err),
		}}
	}
	if len(webhooks) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(maxParallelDeliveries)
	results := make([]DispatchResult, len(webhooks))
	for i, w := range webhooks {
		i, w := i, w
		g.Go(func() error {
			results[i] = d.deliver(ctx, n, w)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// SendTo delivers n to the named webhook, enabled or not.
func (d *Dispatcher) SendTo(ctx context.Context, n *model.Notification, name string) DispatchResult {
	w, err := d.store.Get(name)
	if err != nil {
		return DispatchResult{WebhookName: name, Error: err}
	}
	return d.deliver(ctx, n, w)
}

// Test sends a test notification to the named webhook.
func (d *Dispatcher) Test(ctx context.Context, name string) DispatchResult {
	now := d.now()
	n := model.NewNotification(model.NotifyTest, "eventcal 테스트",
		"웹훅이 올바르게 설정되었습니다.", now).
		WithField("webhook", name).
		WithField("time", now.Format("2006-01-02 15:04"))
	return d.SendTo(ctx, n, name)
}

func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification, w *model.Webhook) DispatchResult {
	result := DispatchResult{WebhookName: w.Name}

	formatter := formatterFor(w)
	payload, err := formatter.Format(n)
	if err != nil {
		result.Error = fmt.Errorf("format notification: %w", err)
		d.record(w.Name, result.Error)
		return result
	}

	sent := d.client.Send(ctx, w.URL, formatter.ContentType(), payload)
	result.StatusCode = sent.StatusCode
	result.Attempts = sent.Attempts
	result.Duration = sent.Duration
	result.Error = sent.Error
	result.Success = sent.Error == nil

	d.record(w.Name, sent.Error)
	return result
}

func (d *Dispatcher) record(name string, deliveryErr error) {
	log := logging.With(logging.KeyWebhook, name)
	if deliveryErr != nil {
		log.Debug("delivery failed", logging.KeyError, deliveryErr)
	}
	if err := d.store.RecordDelivery(name, deliveryErr); err != nil {
		log.Warn("cannot record webhook delivery", logging.KeyError, err)
	}
}
