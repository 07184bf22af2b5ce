package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/erdlayout/pkg/graph"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// maxNamesWidth caps the table list shown per level.
const maxNamesWidth = 48

// =============================================================================
// LevelBrowserModel - Interactive level browser
// =============================================================================

// levelRow is one level of a layout with its tables in order.
type levelRow struct {
	Level int
	IDs   []string
}

// LevelBrowserModel is the bubbletea model behind the inspect command. The
// upper table lists the levels from the top of the drawing down; the lower
// table shows the boxes on the selected level.
type LevelBrowserModel struct {
	Layout graph.Layout
	Levels []levelRow
	Cursor int
	Offset int
	Height int
}

// NewLevelBrowserModel creates a browser over the top-level rows of l.
func NewLevelBrowserModel(l graph.Layout) LevelBrowserModel {
	return LevelBrowserModel{Layout: l, Levels: levelRows(l), Height: 10}
}

// levelRows returns the levels of l, deepest level (drawn at the top)
// first.
func levelRows(l graph.Layout) []levelRow {
	byLevel := l.Levels()
	rows := make([]levelRow, 0, len(byLevel))
	for level, ids := range byLevel {
		rows = append(rows, levelRow{Level: level, IDs: ids})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Level > rows[j].Level })
	return rows
}

func (m LevelBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LevelBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Levels)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Levels)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height/3, 3)
	}
	return m, nil
}

func (m LevelBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Levels"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.levelTable())
	b.WriteString("\n\n")

	if len(m.Levels) > 0 {
		row := m.Levels[m.Cursor]
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Level %d", row.Level)))
		b.WriteString("\n")
		b.WriteString(nodeTable(m.Layout, row.IDs))
		b.WriteString("\n\n")
	}
	b.WriteString(statsLine(m.Layout.Stats, false))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Levels))))

	return b.String()
}

func (m LevelBrowserModel) levelTable() string {
	end := min(m.Offset+m.Height, len(m.Levels))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Levels[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(r.Level), fmt.Sprint(len(r.IDs)), names(r.IDs)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Level", "Tables", "Order").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// nodeTable shows the placed boxes of ids. Groups also list how many
// tables they hold.
func nodeTable(l graph.Layout, ids []string) string {
	children := map[string]int{}
	for _, n := range l.Nodes {
		if n.Parent != "" {
			children[n.Parent]++
		}
	}

	rows := [][]string{}
	for _, id := range ids {
		n, ok := l.Node(id)
		if !ok {
			continue
		}
		kind := fmt.Sprintf("%d columns", len(n.Columns))
		if n.Container {
			kind = fmt.Sprintf("group of %d", children[id])
		}
		rows = append(rows, []string{
			n.Label,
			fmt.Sprint(n.Order),
			fmt.Sprintf("%.0f, %.0f", n.X, n.Y),
			fmt.Sprintf("%.0f × %.0f", n.Width, n.Height),
			kind,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Table", "Order", "Position", "Size", "Content").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleValue
			}
			return StyleNumber
		}).
		Render()
}

// names joins ids, cut at maxNamesWidth.
func names(ids []string) string {
	s := strings.Join(ids, ", ")
	if len(s) <= maxNamesWidth {
		return s
	}
	return s[:maxNamesWidth-1] + "…"
}
