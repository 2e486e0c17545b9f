package output

import (
	"strings"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

// PlainFormatter writes one tab-separated record per line for scripts.
type PlainFormatter struct {
	*Formatter
}

// NewPlainFormatter creates a plain formatter.
func NewPlainFormatter(f *Formatter) *PlainFormatter {
	return &PlainFormatter{Formatter: f}
}

func (p *PlainFormatter) record(fields ...string) {
	for i, f := range fields {
		fields[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(f)
	}
	p.Println(strings.Join(fields, "\t"))
}

// PrintEvents writes id, date, start, end, title, category and a
// notified flag.
func (p *PlainFormatter) PrintEvents(events []model.Event, notified reminder.NotifiedSet) {
	for _, e := range events {
		flag := ""
		if notified.Contains(e.ID) {
			flag = "notified"
		}
		p.record(e.ID, e.Date, e.StartTime, e.EndTime, e.Title, e.Category, flag)
	}
}

func (p *PlainFormatter) PrintNotifications(ns []reminder.Notification) {
	for _, n := range ns {
		p.record(n.ID, n.Message)
	}
}

func (p *PlainFormatter) PrintHolidays(hs []holiday.Holiday) {
	for _, h := range hs {
		p.record(h.Date, h.Name)
	}
}

func (p *PlainFormatter) PrintWebhooks(ws []*model.Webhook) {
	for _, w := range ws {
		enabled := "disabled"
		if w.Enabled {
			enabled = "enabled"
		}
		p.record(w.Name, w.Type, enabled, w.MaskedURL())
	}
}
