package notify

import (
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

// EventNotification builds the outbound message for an upcoming event. The
// message text is the same one the in-app banner shows.
func EventNotification(e model.Event, now time.Time) *model.Notification {
	n := model.NewNotification(model.NotifyEvent, e.Title, reminder.Message(e), now)
	n.EventID = e.ID
	return n.
		WithField("날짜", e.Date).
		WithField("시간", e.StartTime+" - "+e.EndTime).
		WithField("위치", e.Location).
		WithField("카테고리", e.Category).
		WithColor(model.CategoryColor(e.Category))
}
