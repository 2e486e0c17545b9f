package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// EventRepo stores calendar events under event:<id>.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// AmbiguousMatchError is returned when an id prefix matches several events.
type AmbiguousMatchError struct {
	Prefix  string
	Matches int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d events match id %q", e.Matches, e.Prefix)
}

func eventNotFound(id string) error {
	return errors.Wrapf(errors.ErrEventNotFound, "id %s", id)
}

// Create assigns a fresh id to a draft event and stores it.
func (r *EventRepo) Create(e *model.Event) error {
	if e.IsDraft() {
		e.ID = uuid.New().String()
	}
	return r.db.Set(e)
}

// CreateAll stores events in one batch, assigning ids to drafts.
func (r *EventRepo) CreateAll(events []model.Event) ([]model.Event, error) {
	saved := make([]model.Event, len(events))
	batch := make([]model.Model, len(events))
	for i := range events {
		saved[i] = events[i]
		if saved[i].IsDraft() {
			saved[i].ID = uuid.New().String()
		}
		batch[i] = &saved[i]
	}
	if err := r.db.SetAll(batch); err != nil {
		return nil, err
	}
	return saved, nil
}

// Get loads the event with the exact id.
func (r *EventRepo) Get(id string) (*model.Event, error) {
	e := &model.Event{}
	if err := r.db.Get(model.GenerateEventKey(id), e); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, eventNotFound(id)
		}
		return nil, err
	}
	return e, nil
}

// Resolve loads an event by full id or by a unique id prefix such as the
// eight characters ShortID prints.
func (r *EventRepo) Resolve(idOrPrefix string) (*model.Event, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, eventNotFound(idOrPrefix)
	}

	e, err := r.Get(idOrPrefix)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, errors.ErrEventNotFound) {
		return nil, err
	}

	keys, err := r.db.ListByPrefix(model.GenerateEventKey(idOrPrefix))
	if err != nil {
		return nil, err
	}
	switch len(keys) {
	case 0:
		return nil, eventNotFound(idOrPrefix)
	case 1:
		e := &model.Event{}
		if err := r.db.Get(keys[0], e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, &AmbiguousMatchError{Prefix: idOrPrefix, Matches: len(keys)}
	}
}

// List returns every stored event ordered by date, start time and title.
func (r *EventRepo) List() ([]model.Event, error) {
	ptrs, err := GetAllByPrefix(r.db, model.PrefixEvent+":", func() *model.Event {
		return &model.Event{}
	})
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, len(ptrs))
	for i, e := range ptrs {
		events[i] = *e
	}
	SortEvents(events)
	return events, nil
}

// Update overwrites an existing event.
func (r *EventRepo) Update(e *model.Event) error {
	if err := r.mustExist(e.ID); err != nil {
		return err
	}
	return r.db.Set(e)
}

// Delete removes an existing event.
func (r *EventRepo) Delete(id string) error {
	if err := r.mustExist(id); err != nil {
		return err
	}
	return r.db.Delete(model.GenerateEventKey(id))
}

// Count returns the number of stored events.
func (r *EventRepo) Count() (int, error) {
	keys, err := r.db.ListByPrefix(model.PrefixEvent + ":")
	return len(keys), err
}

func (r *EventRepo) mustExist(id string) error {
	if id == "" {
		return eventNotFound(id)
	}
	ok, err := r.db.Exists(model.GenerateEventKey(id))
	if err != nil {
		return err
	}
	if !ok {
		return eventNotFound(id)
	}
	return nil
}

// SortEvents orders events by date, start time, then title.
func SortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Title < b.Title
	})
}
