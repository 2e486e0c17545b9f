// Package ics converts between stored events and iCalendar (RFC 5545) data.
package ics

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/recur"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/validate"
)

// ProductID identifies eventcal in exported calendars.
const ProductID = "-//eventcal//Calendar Export//KO"

// UIDSuffix is appended to event ids to form exported UIDs.
const UIDSuffix = "@eventcal"

// endOfDayClock closes all-day and multi-day events on their start date.
const endOfDayClock = "23:59"

// Skipped describes a VEVENT that Import could not turn into an event.
type Skipped struct {
	UID    string
	Reason string
}

// Result is the outcome of Import.
type Result struct {
	Events  []model.Event
	Skipped []Skipped
}

// Import parses an iCalendar stream into draft events (empty IDs) with dates
// and times expressed in loc. VEVENTs that do not form a valid event are
// reported in Skipped; only a malformed stream is an error.
func Import(r io.Reader, loc *time.Location) (*Result, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	res := &Result{Events: make([]model.Event, 0)}
	for _, ve := range cal.Events() {
		uid := propValue(ve, ical.ComponentPropertyUniqueId)
		e, err := fromVEvent(ve, loc)
		if err != nil {
			logging.Warn("skipping vevent", "uid", uid, logging.KeyError, err)
			res.Skipped = append(res.Skipped, Skipped{UID: uid, Reason: err.Error()})
			continue
		}
		res.Events = append(res.Events, e)
	}

	logging.DebugLog("ics import parsed",
		logging.KeyCount, len(res.Events), "skipped", len(res.Skipped))
	return res, nil
}

func fromVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	e := model.NewEvent(
		propValue(ve, ical.ComponentPropertySummary), "", "", "")
	e.Description = propValue(ve, ical.ComponentPropertyDescription)
	e.Location = propValue(ve, ical.ComponentPropertyLocation)

	if isAllDay(ve) {
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			return model.Event{}, fmt.Errorf("DTSTART: %w", err)
		}
		e.Date = start.Format(model.DateLayout)
		e.StartTime = "00:00"
		e.EndTime = endOfDayClock
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return model.Event{}, fmt.Errorf("DTSTART: %w", err)
		}
		start = start.In(loc)
		end, err := ve.GetEndAt()
		if err != nil {
			end = start.Add(time.Hour)
		}
		end = end.In(loc)

		e.Date = start.Format(model.DateLayout)
		e.StartTime = start.Format(model.ClockLayout)
		e.EndTime = end.Format(model.ClockLayout)
		if end.Format(model.DateLayout) != e.Date {
			e.EndTime = endOfDayClock
		}
	}

	for _, c := range strings.Split(propValue(ve, ical.ComponentPropertyCategories), ",") {
		if c = strings.TrimSpace(c); c != "" && model.IsValidCategory(c) {
			e.Category = c
			break
		}
	}

	if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
		info, err := recur.ParseRRule(raw)
		if err != nil {
			return model.Event{}, err
		}
		e.Repeat = info
	}

	for _, a := range ve.Alarms() {
		if lead, ok := ParseTrigger(propValue(a, ical.ComponentPropertyTrigger)); ok {
			e.NotificationTime = lead
			break
		}
	}

	validate.SanitizeEvent(e)
	if err := validate.Event(e); err != nil {
		return model.Event{}, err
	}
	return *e, nil
}

type propertyGetter interface {
	GetProperty(ical.ComponentProperty) *ical.IANAProperty
}

func propValue(c propertyGetter, p ical.ComponentProperty) string {
	if prop := c.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

func isAllDay(ve *ical.VEvent) bool {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return false
	}
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

var triggerPattern = regexp.MustCompile(`^-P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseTrigger converts a relative VALARM trigger such as "-PT10M" or
// "-P1D" into a lead time in minutes. Only triggers before the start count.
func ParseTrigger(s string) (int, bool) {
	m := triggerPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	units := []int{7 * 24 * 60, 24 * 60, 60, 1}
	total := 0
	for i, mult := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += n * mult
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}

// Trigger renders a lead time in minutes as a VALARM trigger.
func Trigger(minutes int) string {
	switch {
	case minutes%(24*60) == 0:
		return fmt.Sprintf("-P%dD", minutes/(24*60))
	case minutes%60 == 0:
		return fmt.Sprintf("-PT%dH", minutes/60)
	default:
		return fmt.Sprintf("-PT%dM", minutes)
	}
}

// Export writes events as a VCALENDAR. Times are interpreted in loc and
// written in UTC. Events whose date or times do not parse are left out;
// the number written is returned.
func Export(w io.Writer, events []model.Event, loc *time.Location, now time.Time) (int, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendarFor("eventcal")
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("eventcal")
	cal.SetXWRTimezone(loc.String())

	written := 0
	for _, e := range events {
		start, ok := e.Start(loc)
		if !ok {
			continue
		}
		end, ok := e.End(loc)
		if !ok {
			continue
		}

		ve := cal.AddEvent(e.ID + UIDSuffix)
		ve.SetDtStampTime(now)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Category != "" {
			ve.AddCategory(e.Category)
		}
		if rule := recur.RRule(e.Repeat); rule != "" {
			ve.AddRrule(rule)
		}
		if e.NotificationTime > 0 {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(Trigger(e.NotificationTime))
			alarm.SetProperty(ical.ComponentPropertyDescription, reminder.Message(e))
		}
		written++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, err
	}
	return written, nil
}
