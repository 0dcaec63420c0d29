package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// placement is the layout command's output document.
type placement struct {
	Type     visual.StructureType `json:"type"`
	Viewport layout.Viewport      `json:"viewport"`
	Nodes    []placedNode         `json:"nodes"`
}

type placedNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// layoutCommand creates the layout command for computing initial positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output        string
		width, height float64
		asTable       bool
	)

	cmd := &cobra.Command{
		Use:   "layout [state.json|state.yaml]",
		Short: "Compute initial node positions for a structure",
		Long: `Compute initial node positions for a structure description.

Arrays, strings and pointer diagrams are laid out on a centered row, linked
lists on a wider row, trees by heap level, graphs on a ring and matrices on a
grid. Elements carrying explicit x and y keep them.

The result is written as JSON to stdout, or to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.OutOrStdout(), args[0], output, width, height, asTable)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of JSON")

	return cmd
}

// runLayout loads the state, places it and writes the result.
func (c *CLI) runLayout(w io.Writer, input, output string, width, height float64, asTable bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	s, err := visual.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load state %s: %w", input, err)
	}

	opts := c.sceneOptions(cfg, width, height)
	p := computePlacement(s, opts.Viewport, opts.Layout)
	c.Logger.Debug("computed layout", "type", s.Type, "nodes", len(p.Nodes))

	if asTable {
		fmt.Fprintln(w, placementTable(p))
		return nil
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if output == "" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if err := writeFile(output, data); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Layout complete")
	printFile(output)
	printNextStep("Simulate", appName+" simulate "+input)
	return nil
}

func computePlacement(s *visual.State, vp layout.Viewport, cfg layout.Config) placement {
	positions := layout.Place(s, vp, cfg)
	p := placement{Type: s.Type, Viewport: vp, Nodes: make([]placedNode, len(positions))}
	for i, pos := range positions {
		p.Nodes[i] = placedNode{ID: s.Elements[i].ID, X: pos.X, Y: pos.Y}
	}
	return p
}

func placementTable(p placement) string {
	rows := make([][]string, len(p.Nodes))
	for i, n := range p.Nodes {
		rows[i] = []string{n.ID, strconv.FormatFloat(n.X, 'f', 1, 64), strconv.FormatFloat(n.Y, 'f', 1, 64)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleValue
		})
	return StyleTitle.Render(string(p.Type)) + "\n" + t.Render()
}
