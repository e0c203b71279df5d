package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sptr/internal/scenario"
)

const feedSize = 10

type watchModel struct {
	title      string
	events     <-chan scenario.Event
	spinner    spinner.Model
	prog       progress.Model
	total      int
	iterations int
	live       uint64
	counts     opCounts
	feed       []string
	width      int
	done       bool
	aborted    bool
}

type opCounts struct {
	allocs   uint64
	frees    uint64
	retains  uint64
	releases uint64
	moves    uint64
}

type eventMsg scenario.Event
type doneMsg struct{}

// NewWatchModel returns a Bubble Tea model that renders live ownership
// activity for a scenario run of the given iteration count.
func NewWatchModel(title string, iterations int, events <-chan scenario.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &watchModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   iterations,
		width:   80,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scenario.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d iterations, %d live)", m.title, m.iterations, m.total, m.live)
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	counters := fmt.Sprintf("  alloc %d  free %d  retain %d  release %d  move %d",
		m.counts.allocs, m.counts.frees, m.counts.retains, m.counts.releases, m.counts.moves)
	b.WriteString(countStyle.Render(truncate(counters, m.width)))
	b.WriteString("\n\n")

	feedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for _, line := range m.feed {
		b.WriteString(feedStyle.Render("  " + truncate(line, m.width-2)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *watchModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *watchModel) applyEvent(ev scenario.Event) tea.Cmd {
	m.live = ev.Live
	switch ev.Kind {
	case scenario.EventAlloc:
		m.counts.allocs++
	case scenario.EventFree:
		m.counts.frees++
	case scenario.EventRetain:
		m.counts.retains++
	case scenario.EventRelease:
		m.counts.releases++
	case scenario.EventMove:
		m.counts.moves++
	case scenario.EventIteration:
		// Iter is per worker, count completions across all workers.
		m.iterations++
		if m.total > 0 {
			return m.prog.SetPercent(float64(m.iterations) / float64(m.total))
		}
		return nil
	}
	m.pushFeed(formatEvent(ev))
	return nil
}

func (m *watchModel) pushFeed(line string) {
	m.feed = append(m.feed, line)
	if len(m.feed) > feedSize {
		m.feed = m.feed[len(m.feed)-feedSize:]
	}
}

func formatEvent(ev scenario.Event) string {
	switch ev.Kind {
	case scenario.EventAlloc:
		return fmt.Sprintf("alloc   #%d %s", ev.ID, ev.Label)
	case scenario.EventFree:
		return fmt.Sprintf("free    #%d %s", ev.ID, ev.Label)
	case scenario.EventRetain:
		return fmt.Sprintf("retain  #%d %s rc=%d", ev.ID, ev.Label, ev.RC)
	case scenario.EventRelease:
		return fmt.Sprintf("release #%d %s rc=%d", ev.ID, ev.Label, ev.RC)
	case scenario.EventMove:
		return fmt.Sprintf("move    #%d %s", ev.ID, ev.Label)
	default:
		return fmt.Sprintf("event   #%d %s", ev.ID, ev.Label)
	}
}

// Aborted reports whether the user quit before the run finished.
func Aborted(m tea.Model) bool {
	w, ok := m.(*watchModel)
	return ok && w.aborted
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
