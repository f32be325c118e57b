package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/layout"
	"github.com/datamaplabs/lineagraph/pkg/lineage"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// exploreCommand creates the explore command, an interactive lineage browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var infer bool

	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Browse a lineage graph interactively",
		Long: `Browse a lineage graph interactively.

The explore command loads a graph.json file and opens a terminal browser over
its nodes. Moving the cursor recomputes the traversal for the node under it,
and every reachable node lights up in the table. Press m to cycle through the
traversal modes (upstream, downstream, full, impact).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, args[0], infer)
		},
	}

	cmd.Flags().BoolVar(&infer, "infer", false, "run relationship inference before exploring")

	return cmd
}

// runExplore builds the graph and starts the interactive browser.
func (c *CLI) runExplore(cmd *cobra.Command, input string, infer bool) error {
	payload, err := graphio.ReadPayloadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Infer: infer, Logger: c.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	result, err := runner.Execute(cmd.Context(), payload, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	model := NewNodeExplorerModel(result.Graph, *result.Layout)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run explorer: %w", err)
	}

	if m, ok := final.(NodeExplorerModel); ok && m.SelectedID != "" {
		path := m.currentPath()
		printNewline()
		printKeyValue("Node", m.SelectedID)
		printKeyValue("Mode", m.Mode)
		printSuccess("Reaches %d nodes (depth %d)", len(path.Nodes), path.Depth)
		for _, id := range path.NodeIDs() {
			printDetail("%s", id)
		}
	}
	return nil
}

// traversalModes is the cycle order for the m key.
var traversalModes = []string{
	pipeline.ModeUpstream,
	pipeline.ModeDownstream,
	pipeline.ModeFull,
	pipeline.ModeImpact,
}

// =============================================================================
// NodeExplorerModel - Interactive node browser
// =============================================================================

// NodeExplorerModel is the bubbletea model for the lineage browser. The
// traversal for the node under the cursor is recomputed on every cursor or
// mode change; graphs small enough to browse by hand are small enough to
// re-walk per keystroke.
type NodeExplorerModel struct {
	Graph  *lineage.Graph
	Layout layout.Result
	Nodes  []lineage.Node

	Cursor  int
	Offset  int
	Height  int
	ModeIdx int
	Mode    string

	// SelectedID is set when the user confirms a node with enter.
	SelectedID string

	path lineage.PathInfo
}

// NewNodeExplorerModel creates a browser over the graph's nodes, ordered by
// layer so the table reads source-to-sink.
func NewNodeExplorerModel(g *lineage.Graph, res layout.Result) NodeExplorerModel {
	nodes := g.Nodes()
	// Stable sort by (layer, insertion order): walk layers in order and keep
	// each layer's crossing-reduced ordering.
	byID := make(map[string]lineage.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	ordered := make([]lineage.Node, 0, len(nodes))
	for layerIdx := 0; layerIdx < len(res.Order); layerIdx++ {
		for _, id := range res.Order[layerIdx] {
			if n, ok := byID[id]; ok {
				ordered = append(ordered, n)
			}
		}
	}
	if len(ordered) != len(nodes) {
		ordered = nodes
	}

	m := NodeExplorerModel{
		Graph:  g,
		Layout: res,
		Nodes:  ordered,
		Height: 15,
		Mode:   traversalModes[0],
	}
	m.path = m.currentPath()
	return m
}

// currentPath returns the traversal for the node under the cursor.
func (m NodeExplorerModel) currentPath() lineage.PathInfo {
	if len(m.Nodes) == 0 {
		return lineage.PathInfo{}
	}
	id := m.Nodes[m.Cursor].ID
	switch m.Mode {
	case pipeline.ModeUpstream:
		return m.Graph.Upstream(id)
	case pipeline.ModeDownstream:
		return m.Graph.Downstream(id)
	case pipeline.ModeImpact:
		return m.Graph.Impact(id)
	default:
		return m.Graph.FullPath(id)
	}
}

func (m NodeExplorerModel) Init() tea.Cmd {
	return nil
}

func (m NodeExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
				m.path = m.currentPath()
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
				m.path = m.currentPath()
			}
		case "m":
			m.ModeIdx = (m.ModeIdx + 1) % len(traversalModes)
			m.Mode = traversalModes[m.ModeIdx]
			m.path = m.currentPath()
		case "enter":
			if len(m.Nodes) > 0 {
				m.SelectedID = m.Nodes[m.Cursor].ID
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Lineage"))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(m.Mode))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  m mode  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		nodeType := string(n.Type)
		if nodeType == "" {
			nodeType = "—"
		}

		reach := ""
		if m.path.HasNode(n.ID) {
			reach = "●"
		}

		rows = append(rows, []string{
			cursor,
			n.DisplayLabel(),
			nodeType,
			fmt.Sprintf("%d", m.Layout.Layers[n.ID]),
			fmt.Sprintf("%d", len(m.Graph.Incoming(n.ID))),
			fmt.Sprintf("%d", len(m.Graph.Outgoing(n.ID))),
			reach,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "Layer", "In", "Out", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[actualIdx]
			inPath := m.path.HasNode(n.ID)
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				return base.Foreground(colorCyan).Bold(true)
			}
			if inPath {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d reachable",
		m.Cursor+1, len(m.Nodes), len(m.path.Nodes))))

	return b.String()
}
