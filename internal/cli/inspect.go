package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/dataset"
	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
	"github.com/matzehuels/piesweep/pkg/render/sink"
)

// inspectCommand prints the planned slice geometry of a dataset.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		asJSON bool
		flags  configFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [data]",
		Short: "Print the planned slices of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			slices, err := planSlices(args[0], cfg)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("planned slices", "count", len(slices), "config", cfg.String())

			if asJSON {
				return writeSlicesJSON(os.Stdout, slices)
			}
			p, err := palette.New(cfg.Palette...)
			if err != nil {
				return err
			}
			fmt.Println(styleTitle.Render(args[0]))
			fmt.Println(sliceTable(slices, p))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.register(cmd)
	return cmd
}

// planSlices loads a dataset and prepares a chart from it.
func planSlices(path string, cfg config.Config) ([]pie.Slice, error) {
	entries, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	chart := pie.New(pie.WithConfig(cfg))
	chart.SetData(entries)
	if err := chart.Prepare(); err != nil {
		return nil, err
	}
	return chart.Slices(), nil
}

func writeSlicesJSON(w io.Writer, slices []pie.Slice) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(slices)
}

// sliceTable renders the slices as a bordered table with a color swatch per
// row.
func sliceTable(slices []pie.Slice, p palette.Palette) string {
	rows := make([][]string, 0, len(slices))
	for _, s := range slices {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Hex(s.Style))).Render("●")
		rows = append(rows, []string{
			swatch,
			s.ID,
			s.Label,
			strconv.FormatFloat(s.Value, 'g', -1, 64),
			fmt.Sprintf("%.1f%%", s.Fraction*100),
			fmt.Sprintf("%.1f°", s.FromAngle),
			fmt.Sprintf("%.1f°", s.SweepAngle),
			fmt.Sprintf("%.1f°", s.MiddleAngle),
			s.Description(),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Value", "Share", "From", "Sweep", "Middle", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col >= 3 && col <= 7:
				return numberStyle
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})
	return t.Render()
}

// measurerOrNil returns the default label measurer, or nil when the font
// cannot be loaded.
func measurerOrNil() pie.TextMeasurer {
	m, err := sink.DefaultMeasurer()
	if err != nil {
		return nil
	}
	return m
}
