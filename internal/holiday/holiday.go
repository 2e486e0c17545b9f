// Package holiday lists the fixed Korean public holidays shown in the
// calendar views.
package holiday

import (
	"sort"
	"strings"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// Holiday is a named public holiday on a YYYY-MM-DD date.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

var holidays = map[string]string{
	"2024-01-01": "신정",
	"2024-02-09": "설날",
	"2024-02-10": "설날",
	"2024-02-11": "설날",
	"2024-03-01": "삼일절",
	"2024-05-05": "어린이날",
	"2024-06-06": "현충일",
	"2024-08-15": "광복절",
	"2024-09-16": "추석",
	"2024-09-17": "추석",
	"2024-09-18": "추석",
	"2024-10-03": "개천절",
	"2024-10-09": "한글날",
	"2024-12-25": "크리스마스",

	"2025-01-01": "신정",
	"2025-01-28": "설날",
	"2025-01-29": "설날",
	"2025-01-30": "설날",
	"2025-03-01": "삼일절",
	"2025-05-05": "어린이날",
	"2025-06-06": "현충일",
	"2025-08-15": "광복절",
	"2025-10-03": "개천절",
	"2025-10-05": "추석",
	"2025-10-06": "추석",
	"2025-10-07": "추석",
	"2025-10-09": "한글날",
	"2025-12-25": "크리스마스",
}

// Name returns the holiday name for a YYYY-MM-DD date.
func Name(date string) (string, bool) {
	name, ok := holidays[date]
	return name, ok
}

// ForMonth returns the holidays in the month holding date, keyed by
// YYYY-MM-DD. The map is empty, never nil, for months without holidays.
func ForMonth(date time.Time) map[string]string {
	prefix := date.Format("2006-01") + "-"
	out := make(map[string]string)
	for d, name := range holidays {
		if strings.HasPrefix(d, prefix) {
			out[d] = name
		}
	}
	return out
}

// List returns the holidays in the month holding date ordered by date.
func List(date time.Time) []Holiday {
	month := ForMonth(date)
	out := make([]Holiday, 0, len(month))
	for d, name := range month {
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// IsHoliday reports whether t's calendar day is a holiday.
func IsHoliday(t time.Time) bool {
	_, ok := holidays[t.Format(model.DateLayout)]
	return ok
}
