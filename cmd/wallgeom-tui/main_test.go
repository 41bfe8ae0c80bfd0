package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wallcore/geom/cache"
	"github.com/wallcore/geom/spatial"
)

type fakeSource struct {
	network spatial.NetworkResult
	stats   cache.Stats
}

func (f fakeSource) LatestNetworkResult() spatial.NetworkResult { return f.network }
func (f fakeSource) CacheStats() cache.Stats                    { return f.stats }

func TestUpdateAppliesRefreshMsg(t *testing.T) {
	m := newModel(fakeSource{}, 0)
	next, _ := m.Update(refreshMsg{
		network: spatial.NetworkResult{OriginalComplexity: 4, OptimizedComplexity: 2},
		stats:   cache.Stats{Hits: 5, Misses: 1},
	})
	mm := next.(model)
	if mm.network.OriginalComplexity != 4 {
		t.Errorf("OriginalComplexity = %d, want 4", mm.network.OriginalComplexity)
	}
	if mm.stats.Hits != 5 {
		t.Errorf("Hits = %d, want 5", mm.stats.Hits)
	}
}

func TestUpdateQuitsOnQ(t *testing.T) {
	m := newModel(fakeSource{}, 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
}

func TestViewRendersHeaderAndFooter(t *testing.T) {
	m := newModel(fakeSource{}, 0)
	view := m.View()
	if !strings.Contains(view, "wallgeom live dashboard") {
		t.Errorf("expected header in view, got %q", view)
	}
	if !strings.Contains(view, "[q]uit") {
		t.Errorf("expected footer hint in view, got %q", view)
	}
}
