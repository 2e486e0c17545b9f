package scheduler

import (
	"context"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/recur"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

// expansionHorizon covers the longest lead time (one day) past now.
const expansionHorizon = 48 * time.Hour

// EventSource lists the stored events.
type EventSource interface {
	List() ([]model.Event, error)
}

// Sender delivers an outbound notification.
type Sender interface {
	Send(ctx context.Context, n *model.Notification) []notify.DispatchResult
}

// NotifiedStore persists fired event ids across restarts.
type NotifiedStore interface {
	Mark(ids ...string) error
}

// Recorder receives check and delivery outcomes, e.g. for metrics.
type Recorder interface {
	ObserveCheck(events, fresh int, took time.Duration)
	ObserveDelivery(r notify.DispatchResult)
	RecordError(category string, err error)
}

// EventChecker selects the events whose notification window is open and
// sends each one exactly once.
type EventChecker struct {
	events   EventSource
	center   *reminder.Center
	sender   Sender
	notified NotifiedStore
	recorder Recorder
	expand   bool
	loc      *time.Location
}

// CheckerOption configures an EventChecker.
type CheckerOption func(*EventChecker)

// WithExpansion makes the checker expand repeating events before selecting.
func WithExpansion(expand bool) CheckerOption {
	return func(c *EventChecker) { c.expand = expand }
}

// WithLocation sets the zone event wall-clock times are read in.
func WithLocation(loc *time.Location) CheckerOption {
	return func(c *EventChecker) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithNotifiedStore persists fired ids.
func WithNotifiedStore(s NotifiedStore) CheckerOption {
	return func(c *EventChecker) { c.notified = s }
}

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) CheckerOption {
	return func(c *EventChecker) { c.recorder = r }
}

// NewEventChecker creates a checker. sender may be nil, in which case
// notifications only reach the center.
func NewEventChecker(events EventSource, center *reminder.Center, sender Sender, opts ...CheckerOption) *EventChecker {
	c := &EventChecker{
		events: events,
		center: center,
		sender: sender,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs one selection at now.
func (c *EventChecker) Check(ctx context.Context, now time.Time) error {
	start := time.Now()
	now = now.In(c.loc)
	ctx = logging.WithRequestID(ctx, logging.GenerateRequestID())
	log := logging.FromContext(ctx)

	events, err := c.events.List()
	if err != nil {
		c.recordError("storage", err)
		return err
	}
	if c.expand {
		events = recur.ExpandAll(events, dateutil.StartOfDay(now), now.Add(expansionHorizon))
	}

	fresh := c.center.Poll(events, now)
	if c.recorder != nil {
		c.recorder.ObserveCheck(len(events), len(fresh), time.Since(start))
	}
	if len(fresh) == 0 {
		return nil
	}

	ids := make([]string, len(fresh))
	for i, n := range fresh {
		ids[i] = n.ID
	}
	log.Info("notifications due", logging.KeyCount, len(fresh))
	if c.notified != nil {
		if err := c.notified.Mark(ids...); err != nil {
			c.recordError("storage", err)
			log.Warn("cannot persist notified ids", logging.KeyError, err)
		}
	}

	if c.sender == nil {
		return nil
	}
	byID := make(map[string]model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	for _, id := range ids {
		c.deliver(ctx, log, byID[id], now)
	}
	return nil
}

func (c *EventChecker) deliver(ctx context.Context, log *logging.ContextLogger, e model.Event, now time.Time) {
	for _, r := range c.sender.Send(ctx, notify.EventNotification(e, now)) {
		if c.recorder != nil {
			c.recorder.ObserveDelivery(r)
		}
		if r.Error != nil {
			log.Warn("webhook delivery failed",
				logging.KeyWebhook, r.WebhookName, logging.KeyEventID, e.ID, logging.KeyError, r.Error)
			continue
		}
		log.Debug("webhook delivered",
			logging.KeyWebhook, r.WebhookName, logging.KeyEventID, e.ID, logging.KeyDuration, r.Duration)
	}
}

func (c *EventChecker) recordError(category string, err error) {
	if c.recorder != nil {
		c.recorder.RecordError(category, err)
	}
}
