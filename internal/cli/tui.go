package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/readability"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// Sort orders of the node browser.
const (
	sortByIndex = iota
	sortByMin
	sortByDev
	sortByDegree
	numSortModes
)

var sortNames = [numSortModes]string{"index", "min score", "dev score", "degree"}

// =============================================================================
// NodeBrowserModel - Interactive per-node angular resolution
// =============================================================================

// NodeBrowserModel is the bubbletea model for browsing per-node results.
type NodeBrowserModel struct {
	Title   string
	Stats   readability.Stats
	Nodes   []readability.NodeResolution
	Drawing *drawing.Drawing
	Cursor  int
	Offset  int
	Height  int
	Sort    int
}

// NewNodeBrowserModel creates a browser over the per-node results of r.
func NewNodeBrowserModel(r scored) NodeBrowserModel {
	nodes := append([]readability.NodeResolution(nil), r.Result.Report.PerNode...)
	return NodeBrowserModel{
		Title:   r.File,
		Stats:   r.Result.Stats,
		Nodes:   nodes,
		Drawing: r.Result.Drawing,
		Height:  15,
	}
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
			}
		case "pgup":
			m.Cursor = max(0, m.Cursor-m.Height)
		case "pgdown":
			m.Cursor = max(0, min(len(m.Nodes)-1, m.Cursor+m.Height))
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(0, len(m.Nodes)-1)
		case "s":
			m.Sort = (m.Sort + 1) % numSortModes
			m.sortNodes()
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-14)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *NodeBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// sortNodes orders nodes by the current sort mode, worst first for scores.
func (m *NodeBrowserModel) sortNodes() {
	less := func(a, b readability.NodeResolution) bool { return a.Index < b.Index }
	switch m.Sort {
	case sortByMin:
		less = func(a, b readability.NodeResolution) bool { return a.MinDeviation > b.MinDeviation }
	case sortByDev:
		less = func(a, b readability.NodeResolution) bool { return a.DevDeviation > b.DevDeviation }
	case sortByDegree:
		less = func(a, b readability.NodeResolution) bool { return a.Degree > b.Degree }
	}
	sort.SliceStable(m.Nodes, func(i, j int) bool { return less(m.Nodes[i], m.Nodes[j]) })
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(renderScoreTable(m.Stats))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort  q quit"))
	b.WriteString("\n")

	if len(m.Nodes) == 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  no node has two or more links"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	b.WriteString(renderNodeTable(m.Nodes[m.Offset:end], m.Drawing, m.Cursor-m.Offset))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] sorted by %s", m.Cursor+1, len(m.Nodes), sortNames[m.Sort])))
	b.WriteString("\n")

	return b.String()
}

// runNodeBrowser opens the interactive browser for r.
func runNodeBrowser(r scored) error {
	_, err := tea.NewProgram(NewNodeBrowserModel(r), tea.WithAltScreen()).Run()
	return err
}
