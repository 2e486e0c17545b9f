package storage

import (
	"strings"
	"time"
)

const prefixNotified = "notified:"

// DefaultNotifiedTTL bounds how long a fired notification is remembered.
// The longest lead time is one day, so two days covers every window.
const DefaultNotifiedTTL = 48 * time.Hour

// NotifiedRepo persists the ids the daemon already notified so a restart
// does not fire them again. Entries expire through badger's TTL.
type NotifiedRepo struct {
	db  *DB
	ttl time.Duration
}

// NewNotifiedRepo creates a repository that keeps ids for ttl. A
// non-positive ttl uses DefaultNotifiedTTL.
func NewNotifiedRepo(db *DB, ttl time.Duration) *NotifiedRepo {
	if ttl <= 0 {
		ttl = DefaultNotifiedTTL
	}
	return &NotifiedRepo{db: db, ttl: ttl}
}

// Mark records ids as notified.
func (r *NotifiedRepo) Mark(ids ...string) error {
	for _, id := range ids {
		if err := r.db.SetWithTTL(prefixNotified+id, nil, r.ttl); err != nil {
			return err
		}
	}
	return nil
}

// IDs returns every unexpired notified id.
func (r *NotifiedRepo) IDs() ([]string, error) {
	keys, err := r.db.ListByPrefix(prefixNotified)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = strings.TrimPrefix(k, prefixNotified)
	}
	return ids, nil
}
