package storage

import (
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// WebhookRepo stores notification webhooks under webhook:<name>.
type WebhookRepo struct {
	db  *DB
	now func() time.Time
}

// NewWebhookRepo creates a new webhook repository.
func NewWebhookRepo(db *DB) *WebhookRepo {
	return &WebhookRepo{db: db, now: time.Now}
}

func webhookNotFound(name string) error {
	return errors.Wrapf(errors.ErrWebhookNotFound, "name %s", name)
}

// Create stores a new webhook, stamping CreatedAt when unset.
func (r *WebhookRepo) Create(w *model.Webhook) error {
	if w.Key == "" {
		w.Key = model.GenerateWebhookKey(w.Name)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = r.now()
	}
	return r.db.Set(w)
}

// Get loads a webhook by name.
func (r *WebhookRepo) Get(name string) (*model.Webhook, error) {
	w := &model.Webhook{}
	if err := r.db.Get(model.GenerateWebhookKey(name), w); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, webhookNotFound(name)
		}
		return nil, err
	}
	return w, nil
}

// List returns every webhook.
func (r *WebhookRepo) List() ([]*model.Webhook, error) {
	return GetAllByPrefix(r.db, model.PrefixWebhook+":", func() *model.Webhook {
		return &model.Webhook{}
	})
}

// ListEnabled returns the webhooks that receive notifications.
func (r *WebhookRepo) ListEnabled() ([]*model.Webhook, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var enabled []*model.Webhook
	for _, w := range all {
		if w.IsEnabled() {
			enabled = append(enabled, w)
		}
	}
	return enabled, nil
}

// Delete removes a webhook by name.
func (r *WebhookRepo) Delete(name string) error {
	ok, err := r.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return webhookNotFound(name)
	}
	return r.db.Delete(model.GenerateWebhookKey(name))
}

// SetEnabled toggles delivery to a webhook.
func (r *WebhookRepo) SetEnabled(name string, enabled bool) error {
	w, err := r.Get(name)
	if err != nil {
		return err
	}
	w.Enabled = enabled
	return r.db.Set(w)
}

// RecordDelivery stamps LastUsed and stores the last delivery error, or
// clears it when lastErr is nil.
func (r *WebhookRepo) RecordDelivery(name string, lastErr error) error {
	w, err := r.Get(name)
	if err != nil {
		return err
	}

	w.LastUsed = r.now()
	w.LastError = ""
	if lastErr != nil {
		w.LastError = lastErr.Error()
	}
	return r.db.Set(w)
}

// Exists reports whether a webhook with name is stored.
func (r *WebhookRepo) Exists(name string) (bool, error) {
	return r.db.Exists(model.GenerateWebhookKey(name))
}
