package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/importchain/pkg/chains"
	"github.com/matzehuels/importchain/pkg/render"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ChainBrowserModel - Interactive chain browsing
// =============================================================================

// ChainBrowserModel is the bubbletea model for browsing a set of chains.
// The list shows one chain per row; enter expands the selected chain into
// one module per line.
type ChainBrowserModel struct {
	Importer string
	Imported string
	Chains   []chains.Chain
	Cursor   int
	Height   int
	Offset   int
	Expanded bool
}

// NewChainBrowserModel creates a browser over set.
func NewChainBrowserModel(importer, imported string, set *chains.Set) ChainBrowserModel {
	return ChainBrowserModel{
		Importer: importer,
		Imported: imported,
		Chains:   set.Chains(),
		Height:   15,
	}
}

func (m ChainBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ChainBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Expanded {
				m.Expanded = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Chains)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Chains) > 0 {
				m.Expanded = !m.Expanded
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ChainBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Importer + " " + iconArrow + " " + m.Imported))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  q quit"))
	b.WriteString("\n\n")

	if len(m.Chains) == 0 {
		b.WriteString(StyleWarning.Render("No chains"))
		return b.String()
	}
	if m.Expanded {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(m.listView())
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Chains))))
	return b.String()
}

func (m ChainBrowserModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Chains))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		c := m.Chains[i]
		rows = append(rows, []string{cursor, strconv.Itoa(c.Hops()), render.FormatChain(c)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Hops", "Chain").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func (m ChainBrowserModel) detailView() string {
	var b strings.Builder
	c := m.Chains[m.Cursor]
	for i, id := range c {
		switch {
		case i == 0:
			b.WriteString("  " + StyleHighlight.Render(id))
		case i == len(c)-1:
			b.WriteString("  " + StyleDim.Render(iconArrow) + " " + StyleHighlight.Render(id))
		default:
			b.WriteString("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(id))
		}
		if i < len(c)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
