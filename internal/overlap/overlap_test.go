package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

func ev(id, date, start, end string) model.Event {
	return model.Event{ID: id, Title: "event " + id, Date: date, StartTime: start, EndTime: end}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Event
		want bool
	}{
		{"partial overlap", ev("a", "2024-07-01", "10:00", "12:00"), ev("b", "2024-07-01", "11:00", "13:00"), true},
		{"contained", ev("a", "2024-07-01", "09:00", "18:00"), ev("b", "2024-07-01", "12:00", "13:00"), true},
		{"identical", ev("a", "2024-07-01", "10:00", "11:00"), ev("b", "2024-07-01", "10:00", "11:00"), true},
		{"touching end to start", ev("a", "2024-07-01", "10:00", "11:00"), ev("b", "2024-07-01", "11:00", "12:00"), false},
		{"disjoint", ev("a", "2024-07-01", "10:00", "11:00"), ev("b", "2024-07-01", "13:00", "14:00"), false},
		{"different dates", ev("a", "2024-07-01", "10:00", "12:00"), ev("b", "2024-07-02", "10:00", "12:00"), false},
		{"malformed time", ev("a", "2024-07-01", "10:00", "12:00"), ev("b", "2024-07-01", "ten", "12:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestOverlaps_Self(t *testing.T) {
	e := ev("a", "2024-07-01", "10:00", "10:30")
	assert.True(t, Overlaps(e, e))
}

func TestFindOverlapping(t *testing.T) {
	events := []model.Event{
		ev("1", "2024-07-01", "09:00", "10:00"),
		ev("2", "2024-07-01", "10:00", "11:00"),
		ev("3", "2024-07-01", "10:30", "12:00"),
		ev("4", "2024-07-02", "10:00", "11:00"),
	}

	t.Run("new draft", func(t *testing.T) {
		candidate := ev("", "2024-07-01", "09:30", "10:45")
		got := FindOverlapping(candidate, events)
		require.Len(t, got, 3)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "2", got[1].ID)
		assert.Equal(t, "3", got[2].ID)
	})

	t.Run("edit excludes own id", func(t *testing.T) {
		candidate := ev("2", "2024-07-01", "10:00", "10:15")
		assert.Empty(t, FindOverlapping(candidate, events))
	})

	t.Run("edit still reports others", func(t *testing.T) {
		candidate := ev("2", "2024-07-01", "10:00", "11:00")
		got := FindOverlapping(candidate, events)
		require.Len(t, got, 1)
		assert.Equal(t, "3", got[0].ID)
	})

	t.Run("id match excludes even when both ids are empty", func(t *testing.T) {
		others := []model.Event{
			ev("", "2024-07-01", "10:00", "11:00"),
			ev("9", "2024-07-01", "10:15", "10:45"),
		}
		got := FindOverlapping(ev("", "2024-07-01", "10:30", "11:30"), others)
		require.Len(t, got, 1)
		assert.Equal(t, "9", got[0].ID)
	})

	t.Run("no intersections", func(t *testing.T) {
		got := FindOverlapping(ev("", "2024-07-03", "10:00", "11:00"), events)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty list", func(t *testing.T) {
		got := FindOverlapping(ev("", "2024-07-01", "10:00", "11:00"), nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFindOverlapping_WorkedExample(t *testing.T) {
	existing := []model.Event{ev("1", "2024-07-01", "10:00", "12:00")}
	candidate := ev("", "2024-07-01", "11:00", "13:00")

	got := FindOverlapping(candidate, existing)
	require.Len(t, got, 1)
	assert.Equal(t, existing[0], got[0])
}
