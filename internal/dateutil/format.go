package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ZeroPad left-pads a non-negative integer with zeros to width digits.
// width defaults to 2.
func ZeroPad(n int, width ...int) string {
	w := 2
	if len(width) > 0 {
		w = width[0]
	}
	s := strconv.Itoa(n)
	if len(s) >= w {
		return s
	}
	return strings.Repeat("0", w-len(s)) + s
}

// FormatDate renders date as YYYY-MM-DD. When day is given it replaces the
// day of month and leaves year and month untouched.
func FormatDate(date time.Time, day ...int) string {
	d := date.Day()
	if len(day) > 0 {
		d = day[0]
	}
	return fmt.Sprintf("%d-%s-%s", date.Year(), ZeroPad(int(date.Month())), ZeroPad(d))
}

// FormatMonth renders date as "YYYY년 M월".
func FormatMonth(date time.Time) string {
	return fmt.Sprintf("%d년 %d월", date.Year(), int(date.Month()))
}

// FormatWeek renders date as "YYYY년 M월 N주" where N is the week of the month
// the date falls in.
func FormatWeek(date time.Time) string {
	return fmt.Sprintf("%s %d주", FormatMonth(date), WeekOfMonth(date))
}
