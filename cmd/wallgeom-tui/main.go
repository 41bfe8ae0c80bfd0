// Command wallgeom-tui is a read-only live view of the intersection
// network's last optimization pass and the junction/miter cache's
// statistics, grounded on dashboard.go's bubbletea model shape
// (tea.WindowSizeMsg/tea.KeyMsg handling, a periodic refresh tea.Cmd,
// lipgloss-styled sections). Kept deliberately minimal: a thin view over
// spatial.NetworkResult.String() and its own rendering of cache.Stats, with no
// interactive property panels.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wallcore/geom/cache"
	"github.com/wallcore/geom/spatial"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type refreshMsg struct {
	network spatial.NetworkResult
	stats   cache.Stats
}

type refreshErrMsg struct{ err error }

// Source supplies the data the dashboard polls. Production callers wire
// this to a live spatial.Index + cache.Store; tests supply a fake.
type Source interface {
	LatestNetworkResult() spatial.NetworkResult
	CacheStats() cache.Stats
}

type model struct {
	source      Source
	network     spatial.NetworkResult
	stats       cache.Stats
	lastUpdate  time.Time
	err         error
	width       int
	refreshRate time.Duration
}

func newModel(source Source, refreshRate time.Duration) model {
	return model{source: source, refreshRate: refreshRate}
}

func (m model) Init() tea.Cmd {
	return m.poll()
}

func (m model) poll() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{network: m.source.LatestNetworkResult(), stats: m.source.CacheStats()}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(time.Time) tea.Msg {
		return m.poll()()
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}
	case refreshMsg:
		m.network = msg.network
		m.stats = msg.stats
		m.lastUpdate = time.Now()
		return m, m.tick()
	case refreshErrMsg:
		m.err = msg.err
		return m, m.tick()
	}
	return m, nil
}

func (m model) View() string {
	header := headerStyle.Render("wallgeom live dashboard")
	if m.err != nil {
		return header + "\n\n" + boxStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	networkBox := boxStyle.Render(m.network.String())
	cacheBox := boxStyle.Render(fmt.Sprintf(
		"hits=%d misses=%d evictions=%d hit_rate=%.2f entries=%d",
		m.stats.Hits, m.stats.Misses, m.stats.Evictions, m.stats.HitRate(), m.stats.EntriesTracked,
	))
	footer := dimStyle.Render(fmt.Sprintf("last update: %s   [r]efresh   [q]uit", m.lastUpdate.Format(time.Kitchen)))

	return header + "\n\n" + networkBox + "\n" + cacheBox + "\n\n" + footer
}

// staticSource is the built-in demo Source: an idle dashboard with no
// resolved junctions and an empty cache, useful for smoke-testing the
// terminal rendering without a running wall store.
type staticSource struct{}

func (staticSource) LatestNetworkResult() spatial.NetworkResult { return spatial.NetworkResult{} }
func (staticSource) CacheStats() cache.Stats                    { return cache.Stats{} }

func main() {
	refreshRate := 2 * time.Second
	p := tea.NewProgram(newModel(staticSource{}, refreshRate))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "wallgeom-tui:", err)
		os.Exit(1)
	}
}
