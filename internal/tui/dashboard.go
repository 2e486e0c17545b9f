package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/recur"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
)

// pollHorizon bounds recurrence expansion for notification polling.
const pollHorizon = 48 * time.Hour

// tickMsg is sent when the poll timer ticks.
type tickMsg time.Time

// refreshMsg reloads events from the source.
type refreshMsg struct{}

// EventSource lists the stored events.
type EventSource interface {
	List() ([]model.Event, error)
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Events EventSource
	// Center receives notification polls. A new center is used when nil.
	Center   *reminder.Center
	View     search.ViewMode
	Location *time.Location
	// Expand materializes repeating events for the visible window.
	Expand bool
	// RefreshInterval is the notification poll period. Defaults to 1s.
	RefreshInterval time.Duration
	Now             func() time.Time
}

// DashboardModel is the bubbletea model for the calendar.
type DashboardModel struct {
	source   EventSource
	center   *reminder.Center
	loc      *time.Location
	now      func() time.Time
	expand   bool
	interval time.Duration

	raw     []model.Event
	visible []model.Event

	anchor    time.Time
	view      search.ViewMode
	query     string
	searching bool
	cursor    int

	width      int
	height     int
	err        error
	message    string
	messageExp time.Time
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(cfg DashboardConfig) *DashboardModel {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Center == nil {
		cfg.Center = reminder.NewCenter()
	}
	if cfg.View == "" {
		cfg.View = search.ViewWeek
	}
	m := &DashboardModel{
		source:   cfg.Events,
		center:   cfg.Center,
		loc:      cfg.Location,
		now:      cfg.Now,
		expand:   cfg.Expand,
		interval: cfg.RefreshInterval,
		view:     cfg.View,
	}
	m.anchor = dateutil.StartOfDay(m.clock())
	return m
}

func (m *DashboardModel) clock() time.Time {
	return m.now().In(m.loc)
}

func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), func() tea.Msg { return refreshMsg{} })
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		now := time.Time(msg).In(m.loc)
		if !m.messageExp.IsZero() && now.After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		m.poll(now)
		return m, m.tickCmd()

	case refreshMsg:
		m.load()
		return m, nil
	}
	return m, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.shift(-1)
	case "right", "l":
		m.shift(1)
	case "t":
		m.anchor = dateutil.StartOfDay(m.clock())
		m.recompute()
	case "v":
		m.cycleView()
	case "/":
		m.searching = true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "x":
		if len(m.center.Notifications()) > 0 {
			m.center.Remove(0)
		}
	case "r":
		m.load()
		m.setMessage("Refreshed", time.Second)
	}
	return m, nil
}

func (m *DashboardModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	default:
		return m, nil
	}
	m.recompute()
	return m, nil
}

// shift moves the anchor one week or one month. Month moves land on the
// first of the month so short months are never skipped.
func (m *DashboardModel) shift(dir int) {
	if m.view == search.ViewWeek {
		m.anchor = m.anchor.AddDate(0, 0, dir*dateutil.DaysPerWeek)
	} else {
		m.anchor = dateutil.StartOfMonth(m.anchor).AddDate(0, dir, 0)
	}
	m.recompute()
}

func (m *DashboardModel) cycleView() {
	switch m.view {
	case search.ViewWeek:
		m.view = search.ViewMonth
	case search.ViewMonth:
		m.view = search.ViewAll
	default:
		m.view = search.ViewWeek
	}
	m.recompute()
}

func (m *DashboardModel) load() {
	events, err := m.source.List()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.raw = events
	m.recompute()
}

// windowEvents returns the events to filter: the raw list, expanded over
// the month around the anchor when expansion is on.
func (m *DashboardModel) windowEvents() []model.Event {
	if !m.expand || m.view == search.ViewAll {
		return m.raw
	}
	start := dateutil.StartOfMonth(m.anchor).AddDate(0, 0, -dateutil.DaysPerWeek)
	end := dateutil.EndOfMonth(m.anchor).AddDate(0, 0, dateutil.DaysPerWeek)
	return recur.ExpandAll(m.raw, start, end)
}

func (m *DashboardModel) recompute() {
	m.visible = search.Filtered(m.windowEvents(), m.query, m.anchor, m.view)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *DashboardModel) poll(now time.Time) {
	events := m.raw
	if m.expand {
		events = recur.ExpandAll(m.raw, dateutil.StartOfDay(now), now.Add(pollHorizon))
	}
	m.center.Poll(events, now)
}

func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}
	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}
	banners := &BannerComponent{Notifications: m.center.Notifications(), Width: m.width}
	if v := banners.View(); v != "" {
		sections = append(sections, v)
	}
	if m.searching || m.query != "" {
		sections = append(sections, m.renderSearch())
	}

	opts := output.CalendarOptions{
		Notified: m.center.Notified(),
		Today:    m.clock(),
		Width:    m.width,
		Color:    true,
	}
	cal := m.windowEvents()
	if m.query != "" {
		cal = search.Search(cal, m.query)
	}
	if m.view == search.ViewWeek {
		sections = append(sections, output.RenderWeek(m.anchor, cal, opts))
	} else {
		sections = append(sections, output.RenderMonth(m.anchor, cal, opts))
	}

	list := &EventListComponent{Events: m.visible, Notified: m.center.Notified(), Cursor: m.cursor, Width: m.width}
	sections = append(sections, list.View(), HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("eventcal")
	label := dateutil.FormatMonth(m.anchor)
	if m.view == search.ViewWeek {
		label = dateutil.FormatWeek(m.anchor)
	}
	now := StyleSubtitle.Render(m.clock().Format("2006-01-02 15:04:05"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", label, "  ", StyleSubtitle.Render(string(m.view)), "  ", now)
}

func (m *DashboardModel) renderSearch() string {
	text := "일정 검색: " + m.query
	if m.searching {
		text += "▏"
	}
	return StyleSearchBox.Render(text)
}

func (m *DashboardModel) setMessage(msg string, d time.Duration) {
	m.message = msg
	m.messageExp = m.clock().Add(d)
}

func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the calendar TUI.
func Run(cfg DashboardConfig) error {
	p := tea.NewProgram(NewDashboardModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
