package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{"january", 2024, 1, 31},
		{"april", 2024, 4, 30},
		{"leap february", 2024, 2, 29},
		{"common february", 2023, 2, 28},
		{"century february", 1900, 2, 28},
		{"quad century february", 2000, 2, 29},
		{"month 13 rolls to january", 2024, 13, 31},
		{"month 14 rolls to february", 2024, 14, 28},
		{"month 0 rolls to december", 2024, 0, 31},
		{"month -1 rolls to november", 2024, -1, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestDaysInMonth_EveryMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		want := time.Date(2025, time.Month(m), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
		assert.Equal(t, want, DaysInMonth(2025, m), "month %d", m)
	}
}

func TestWeekDates(t *testing.T) {
	t.Run("mid week", func(t *testing.T) {
		dates := WeekDates(time.Date(2024, 11, 13, 15, 30, 0, 0, time.UTC))
		require.Len(t, dates, 7)
		for i, d := range dates {
			assert.Equal(t, day(2024, 11, 10+i), d)
		}
	})

	t.Run("first day of week", func(t *testing.T) {
		dates := WeekDates(day(2024, 11, 10))
		assert.Equal(t, day(2024, 11, 10), dates[0])
		assert.Equal(t, day(2024, 11, 16), dates[6])
	})

	t.Run("last day of week", func(t *testing.T) {
		dates := WeekDates(day(2024, 11, 16))
		assert.Equal(t, day(2024, 11, 10), dates[0])
		assert.Equal(t, day(2024, 11, 16), dates[6])
	})

	t.Run("spans year boundary", func(t *testing.T) {
		dates := WeekDates(day(2024, 12, 30))
		assert.Equal(t, day(2024, 12, 29), dates[0])
		assert.Equal(t, day(2025, 1, 4), dates[6])
	})

	t.Run("spans month boundary", func(t *testing.T) {
		dates := WeekDates(day(2024, 7, 31))
		assert.Equal(t, day(2024, 7, 28), dates[0])
		assert.Equal(t, day(2024, 8, 3), dates[6])
	})

	t.Run("leap day", func(t *testing.T) {
		dates := WeekDates(day(2024, 2, 29))
		assert.Equal(t, day(2024, 2, 25), dates[0])
		assert.Equal(t, day(2024, 3, 2), dates[6])
	})

	t.Run("starts on sunday and increments by one day", func(t *testing.T) {
		start := day(2023, 1, 1)
		for i := 0; i < 400; i++ {
			dates := WeekDates(start.AddDate(0, 0, i))
			require.Len(t, dates, 7)
			assert.Equal(t, time.Sunday, dates[0].Weekday())
			for j := 1; j < len(dates); j++ {
				assert.Equal(t, dates[j-1].AddDate(0, 0, 1), dates[j])
			}
		}
	})

	t.Run("keeps location", func(t *testing.T) {
		seoul := time.FixedZone("KST", 9*60*60)
		dates := WeekDates(time.Date(2024, 7, 10, 23, 0, 0, 0, seoul))
		assert.Equal(t, time.Date(2024, 7, 7, 0, 0, 0, 0, seoul), dates[0])
	})
}

func TestMonthGrid(t *testing.T) {
	t.Run("july 2024", func(t *testing.T) {
		grid := MonthGrid(day(2024, 7, 1))
		require.Len(t, grid, 5)
		assert.Equal(t, Week{0, 1, 2, 3, 4, 5, 6}, grid[0])
		assert.Equal(t, Week{28, 29, 30, 31, 0, 0, 0}, grid[4])
	})

	t.Run("month starting on sunday", func(t *testing.T) {
		grid := MonthGrid(day(2024, 9, 15))
		require.Len(t, grid, 5)
		assert.Equal(t, 1, grid[0][0])
	})

	t.Run("february fitting four rows", func(t *testing.T) {
		grid := MonthGrid(day(2015, 2, 10))
		require.Len(t, grid, 4)
		assert.Equal(t, Week{1, 2, 3, 4, 5, 6, 7}, grid[0])
		assert.Equal(t, Week{22, 23, 24, 25, 26, 27, 28}, grid[3])
	})

	t.Run("six rows", func(t *testing.T) {
		grid := MonthGrid(day(2024, 6, 1))
		require.Len(t, grid, 6)
		assert.Equal(t, 1, grid[0][6])
		assert.Equal(t, Week{30, 0, 0, 0, 0, 0, 0}, grid[5])
	})

	t.Run("every day appears once", func(t *testing.T) {
		for m := time.January; m <= time.December; m++ {
			seen := map[int]int{}
			for _, week := range MonthGrid(day(2024, m, 1)) {
				for _, d := range week {
					if d != 0 {
						seen[d]++
					}
				}
			}
			assert.Len(t, seen, DaysInMonth(2024, int(m)))
			for d, n := range seen {
				assert.Equal(t, 1, n, "day %d of %s", d, m)
			}
		}
	})
}

func TestIsInRange(t *testing.T) {
	start := day(2024, 7, 1)
	end := time.Date(2024, 7, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"inside", day(2024, 7, 10), true},
		{"equal to start", start, true},
		{"equal to end", end, true},
		{"before start", time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), false},
		{"after end", day(2024, 8, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInRange(tt.date, start, end))
		})
	}

	t.Run("start after end is empty", func(t *testing.T) {
		assert.False(t, IsInRange(day(2024, 7, 10), end, start))
	})

	t.Run("full timestamp granularity", func(t *testing.T) {
		noon := time.Date(2024, 7, 31, 12, 0, 0, 0, time.UTC)
		assert.False(t, IsInRange(time.Date(2024, 7, 31, 13, 0, 0, 0, time.UTC), start, noon))
	})
}

func TestDayBoundaries(t *testing.T) {
	ts := time.Date(2024, 2, 14, 13, 45, 10, 0, time.UTC)

	assert.Equal(t, day(2024, 2, 14), StartOfDay(ts))
	assert.Equal(t, time.Date(2024, 2, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC), EndOfDay(ts))
	assert.Equal(t, day(2024, 2, 1), StartOfMonth(ts))
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), EndOfMonth(ts))
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, WeekOfMonth(day(2024, 7, 1)))
	assert.Equal(t, 1, WeekOfMonth(day(2024, 7, 6)))
	assert.Equal(t, 2, WeekOfMonth(day(2024, 7, 7)))
	assert.Equal(t, 2, WeekOfMonth(day(2024, 7, 10)))
	assert.Equal(t, 5, WeekOfMonth(day(2024, 7, 31)))
	assert.Equal(t, 6, WeekOfMonth(day(2024, 6, 30)))
}

func TestZeroPad(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		width []int
		want  string
	}{
		{"single digit default width", 5, nil, "05"},
		{"two digits default width", 10, nil, "10"},
		{"wider", 3, []int{3}, "003"},
		{"exceeds width", 100, []int{2}, "100"},
		{"zero", 0, nil, "00"},
		{"width one", 7, []int{1}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ZeroPad(tt.n, tt.width...))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-07-10", FormatDate(day(2024, 7, 10)))
	assert.Equal(t, "2024-07-15", FormatDate(day(2024, 7, 10), 15))
	assert.Equal(t, "2024-01-05", FormatDate(day(2024, 1, 5)))
	assert.Equal(t, "2024-12-25", FormatDate(day(2024, 12, 25)))
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2024년 7월", FormatMonth(day(2024, 7, 10)))
	assert.Equal(t, "2025년 12월", FormatMonth(day(2025, 12, 1)))
}

func TestFormatWeek(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{day(2024, 7, 10), "2024년 7월 2주"},
		{day(2024, 7, 1), "2024년 7월 1주"},
		{day(2024, 7, 31), "2024년 7월 5주"},
		{day(2024, 9, 1), "2024년 9월 1주"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWeek(tt.date))
		})
	}
}

func TestParseDateAndClock(t *testing.T) {
	d, ok := ParseDate("2024-07-10", time.UTC)
	require.True(t, ok)
	assert.Equal(t, day(2024, 7, 10), d)

	_, ok = ParseDate("2024/07/10", time.UTC)
	assert.False(t, ok)

	offset, ok := ParseClock("14:30")
	require.True(t, ok)
	assert.Equal(t, 14*time.Hour+30*time.Minute, offset)

	_, ok = ParseClock("25:00")
	assert.False(t, ok)

	ts, ok := Combine("2024-07-10", "09:05", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 10, 9, 5, 0, 0, time.UTC), ts)

	_, ok = Combine("", "09:05", time.UTC)
	assert.False(t, ok)
	_, ok = Combine("2024-07-10", "nine", time.UTC)
	assert.False(t, ok)
}
