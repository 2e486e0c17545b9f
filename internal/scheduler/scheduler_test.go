package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

type countingChecker struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *countingChecker) Check(_ context.Context, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.times = append(c.times, now)
	return nil
}

func (c *countingChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.times)
}

func TestNew_Defaults(t *testing.T) {
	s := New("", &countingChecker{}, 0)
	assert.Equal(t, DefaultSpec, s.spec)
	assert.Equal(t, DefaultSleepThreshold, s.sleepThreshold)
}

func TestValidateSpec(t *testing.T) {
	assert.NoError(t, ValidateSpec(DefaultSpec))
	assert.NoError(t, ValidateSpec("*/30 * * * * *"))
	assert.NoError(t, ValidateSpec("@every 10s"))
	assert.Error(t, ValidateSpec("* * * * *"))
	assert.Error(t, ValidateSpec("nonsense"))
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	c := &countingChecker{}
	s := New(DefaultSpec, c, 0)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, 1, c.count())
	assert.False(t, s.NextRun().IsZero())
}

func TestScheduler_StartInvalidSpec(t *testing.T) {
	s := New("bad spec", &countingChecker{}, 0)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_TickSkipsAfterSleep(t *testing.T) {
	c := &countingChecker{}
	s := New(DefaultSpec, c, time.Hour)
	clock := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.lastTick = clock

	clock = clock.Add(time.Minute)
	s.tick()
	assert.Equal(t, 1, c.count())

	clock = clock.Add(3 * time.Hour)
	s.tick()
	assert.Equal(t, 1, c.count(), "tick after a sleep gap is skipped")

	clock = clock.Add(time.Minute)
	s.tick()
	assert.Equal(t, 2, c.count())
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(DefaultSpec, &countingChecker{}, 0)
	assert.True(t, s.NextRun().IsZero(), "nothing runs before Start")

	require.NoError(t, s.AddJob("@every 1h", func() {}))
	assert.Error(t, s.AddJob("not a spec", func() {}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.NextRun()
	require.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now(), next, time.Minute, "the minute check comes before the hourly job")
}

type stubSource struct {
	events []model.Event
	err    error
}

func (s stubSource) List() ([]model.Event, error) { return s.events, s.err }

type stubSender struct {
	mu   sync.Mutex
	sent []*model.Notification
}

func (s *stubSender) Send(_ context.Context, n *model.Notification) []notify.DispatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return []notify.DispatchResult{{WebhookName: "hook", Success: true}}
}

type stubRecorder struct {
	checks     int
	fresh      int
	deliveries int
	errors     []string
}

func (r *stubRecorder) ObserveCheck(_, fresh int, _ time.Duration) {
	r.checks++
	r.fresh += fresh
}
func (r *stubRecorder) ObserveDelivery(notify.DispatchResult) { r.deliveries++ }
func (r *stubRecorder) RecordError(category string, _ error) {
	r.errors = append(r.errors, category)
}

func meeting() model.Event {
	return model.Event{
		ID:               "1",
		Title:            "회의",
		Date:             "2024-07-01",
		StartTime:        "10:00",
		EndTime:          "11:00",
		Repeat:           model.RepeatInfo{Type: model.RepeatNone, Interval: 1},
		NotificationTime: 10,
	}
}

func TestEventChecker_Check(t *testing.T) {
	sender := &stubSender{}
	rec := &stubRecorder{}
	center := reminder.NewCenter()
	c := NewEventChecker(stubSource{events: []model.Event{meeting()}}, center, sender,
		WithLocation(time.UTC), WithRecorder(rec))

	early := time.Date(2024, 7, 1, 9, 40, 0, 0, time.UTC)
	require.NoError(t, c.Check(context.Background(), early))
	assert.Empty(t, sender.sent)

	due := time.Date(2024, 7, 1, 9, 55, 0, 0, time.UTC)
	require.NoError(t, c.Check(context.Background(), due))
	require.NoError(t, c.Check(context.Background(), due.Add(time.Minute)))

	require.Len(t, sender.sent, 1, "each event is sent once")
	assert.Equal(t, "1", sender.sent[0].EventID)
	assert.Equal(t, "10분 후 회의 일정이 시작됩니다.", sender.sent[0].Message)
	assert.Len(t, center.Notifications(), 1)
	assert.Equal(t, 3, rec.checks)
	assert.Equal(t, 1, rec.fresh)
	assert.Equal(t, 1, rec.deliveries)
}

func TestEventChecker_ReadsTimesInLocation(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	sender := &stubSender{}
	c := NewEventChecker(stubSource{events: []model.Event{meeting()}}, reminder.NewCenter(), sender,
		WithLocation(kst))

	// 09:55 KST
	require.NoError(t, c.Check(context.Background(), time.Date(2024, 7, 1, 0, 55, 0, 0, time.UTC)))
	assert.Len(t, sender.sent, 1)
}

func TestEventChecker_ExpandsRepeating(t *testing.T) {
	e := meeting()
	e.Date = "2024-06-03"
	e.Repeat = model.RepeatInfo{Type: model.RepeatWeekly, Interval: 1}
	sender := &stubSender{}
	c := NewEventChecker(stubSource{events: []model.Event{e}}, reminder.NewCenter(), sender,
		WithLocation(time.UTC), WithExpansion(true))

	require.NoError(t, c.Check(context.Background(), time.Date(2024, 7, 1, 9, 55, 0, 0, time.UTC)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "1@2024-07-01", sender.sent[0].EventID)
}

func TestEventChecker_PersistsNotified(t *testing.T) {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	defer db.Close()
	repo := storage.NewNotifiedRepo(db, 0)

	c := NewEventChecker(stubSource{events: []model.Event{meeting()}}, reminder.NewCenter(), nil,
		WithLocation(time.UTC), WithNotifiedStore(repo))
	require.NoError(t, c.Check(context.Background(), time.Date(2024, 7, 1, 9, 55, 0, 0, time.UTC)))

	ids, err := repo.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestEventChecker_SourceError(t *testing.T) {
	rec := &stubRecorder{}
	c := NewEventChecker(stubSource{err: stderrors.New("db closed")}, reminder.NewCenter(), nil,
		WithRecorder(rec))

	assert.Error(t, c.Check(context.Background(), time.Now()))
	assert.Equal(t, []string{"storage"}, rec.errors)
}
