package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/molcanon/pkg/registry"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// keyColumnWidth truncates long canonical keys in the table.
const keyColumnWidth = 48

// =============================================================================
// EntryListModel - Interactive registry browser
// =============================================================================

// EntryListModel is the bubbletea model for browsing registry entries.
type EntryListModel struct {
	Entries  []registry.Entry
	Cursor   int
	Selected *registry.Entry
	Height   int
	Offset   int
	Filter   string
	filtered []int
}

// NewEntryListModel creates a browser over entries.
func NewEntryListModel(entries []registry.Entry) EntryListModel {
	m := EntryListModel{Entries: entries, Height: 15}
	m.applyFilter()
	return m
}

func (m EntryListModel) Init() tea.Cmd {
	return nil
}

func (m EntryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			m.move(-1)
		case "down":
			m.move(1)
		case "enter":
			if len(m.filtered) == 0 {
				return m, nil
			}
			e := m.Entries[m.filtered[m.Cursor]]
			m.Selected = &e
			return m, tea.Quit
		case "backspace":
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.Filter += string(msg.Runes)
				m.applyFilter()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *EntryListModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// applyFilter keeps entries whose name, formula or key contains the filter,
// case-insensitively, and resets the cursor.
func (m *EntryListModel) applyFilter() {
	m.filtered = nil
	needle := strings.ToLower(m.Filter)
	for i, e := range m.Entries {
		hay := strings.ToLower(e.Name + " " + e.Formula + " " + e.Key)
		if needle == "" || strings.Contains(hay, needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Visible returns the entries matching the current filter.
func (m EntryListModel) Visible() []registry.Entry {
	out := make([]registry.Entry, len(m.filtered))
	for i, idx := range m.filtered {
		out[i] = m.Entries[idx]
	}
	return out
}

func (m EntryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Molecule Registry"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleKey.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.filtered))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[m.filtered[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.Formula, e.Name, truncate(e.Key, keyColumnWidth), formatRelativeTime(e.CreatedAt)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Formula", "Name", "Key", "Added").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.filtered) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.filtered))))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
