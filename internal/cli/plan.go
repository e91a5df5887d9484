package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgmirror/pkg/deps"
)

// planCommand creates the plan command, which lists the artifacts a mirror
// has to fetch.
func (c *CLI) planCommand() *cobra.Command {
	var (
		in      inputFlags
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "plan [path...]",
		Short: "List the tarballs and repositories a mirror must fetch",
		Long: `Resolve the scanned manifests and print one row per artifact: registry
versions with their tarball URL, web tarballs with their own URL, and git
references that have to be cloned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.runResolve(cmd, args, &in)
			if err != nil {
				return err
			}
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			targets, err := deps.Targets(s.Registry, resolved)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := marshalJSON(targets)
				if err != nil {
					return err
				}
				return writeOutput(cmd, in.output, data)
			}
			return writeOutput(cmd, in.output, []byte(renderPlan(targets, !noColor && in.output == "")+"\n"))
		},
	}

	in.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print targets as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "render the table without colors")
	return cmd
}

// renderPlan renders targets as a table.
func renderPlan(targets []deps.Target, color bool) string {
	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, []string{t.Name, t.Version, t.Source, t.URL})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("PACKAGE", "VERSION", "SOURCE", "URL").
		Rows(rows...)
	if !color {
		return tbl.String()
	}

	return tbl.
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return style.Inherit(StyleTitle)
			case col == 3:
				return style.Inherit(StyleLink)
			case col == 2 && row < len(rows) && rows[row][2] != deps.KindExact.String():
				return style.Inherit(StyleWarning)
			}
			return style
		}).
		String()
}
