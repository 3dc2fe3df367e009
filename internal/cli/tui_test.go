package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/importchain/pkg/chains"
)

func testSet() *chains.Set {
	return chains.NewSet(
		chains.Chain{"app.web", "app.svc", "app.db"},
		chains.Chain{"app.web", "app.api", "app.db"},
		chains.Chain{"app.web", "app.jobs", "app.db"},
	)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ChainBrowserModel, keys ...string) (ChainBrowserModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ChainBrowserModel)
	}
	return m, cmd
}

func TestChainBrowserNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
	}{
		{"start", nil, 0},
		{"down", []string{"down"}, 1},
		{"vim down", []string{"j", "j"}, 2},
		{"clamped at end", []string{"down", "down", "down", "down"}, 2},
		{"clamped at start", []string{"up", "k"}, 0},
		{"down then up", []string{"down", "down", "up"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(NewChainBrowserModel("app.web", "app.db", testSet()), tt.keys...)
			if m.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
		})
	}
}

func TestChainBrowserPaging(t *testing.T) {
	m := NewChainBrowserModel("app.web", "app.db", testSet())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	m = next.(ChainBrowserModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}

	m.Height = 2
	m, _ = press(m, "down", "down")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = press(m, "up", "up")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestChainBrowserExpand(t *testing.T) {
	m, _ := press(NewChainBrowserModel("app.web", "app.db", testSet()), "enter")
	if !m.Expanded {
		t.Fatal("enter did not expand the chain")
	}
	// Chains are sorted: app.api comes first.
	view := m.View()
	if !strings.Contains(view, "app.api") || strings.Contains(view, "app.svc") {
		t.Errorf("expanded view should show only the selected chain:\n%s", view)
	}

	m, cmd := press(m, "esc")
	if m.Expanded || cmd != nil {
		t.Errorf("esc in detail view should collapse, got expanded=%v cmd=%v", m.Expanded, cmd != nil)
	}
	if _, cmd := press(m, "esc"); cmd == nil {
		t.Error("esc in list view should quit")
	}
}

func TestChainBrowserQuit(t *testing.T) {
	_, cmd := press(NewChainBrowserModel("app.web", "app.db", testSet()), "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestChainBrowserViewList(t *testing.T) {
	view := NewChainBrowserModel("app.web", "app.db", testSet()).View()
	for _, want := range []string{"app.web -> app.api -> app.db", "app.web -> app.jobs -> app.db", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestChainBrowserEmpty(t *testing.T) {
	m, _ := press(NewChainBrowserModel("a", "b", &chains.Set{}), "enter", "down")
	if m.Expanded || m.Cursor != 0 {
		t.Errorf("empty browser moved: expanded=%v cursor=%d", m.Expanded, m.Cursor)
	}
	if !strings.Contains(m.View(), "No chains") {
		t.Error("empty view should say so")
	}
}
