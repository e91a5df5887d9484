package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// demandCommand creates the demand command, which prints the merged
// specifiers of all scanned manifests without contacting the registry.
func (c *CLI) demandCommand() *cobra.Command {
	var (
		in     inputFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "demand [path...]",
		Short: "List the version specifiers declared by package.json manifests",
		Long: `Scan package.json files (directories are searched recursively) and print the
merged set of version specifiers per package. Local file references are dropped.

The JSON output can be fed back with "pkgmirror resolve --from".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			d, err := c.demand(cmd, args, &in, s)
			if err != nil {
				return err
			}

			data, err := formatPairs(d, d.Pairs(), format)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, in.output, data); err != nil {
				return err
			}
			printSuccess("%d specifiers for %d packages", d.Len(), len(d))
			if in.output != "" && format == formatJSON {
				printNextStep("Resolve them", appName+" resolve --from "+in.output)
			}
			return nil
		},
	}

	in.register(cmd, false)
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or text")
	return cmd
}

// formatPairs renders a demand or resolved set as JSON, or as one
// "name value" line per pair.
func formatPairs(v any, pairs []deps.Pair, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		return marshalJSON(v)
	case formatText:
		var b strings.Builder
		for _, p := range pairs {
			fmt.Fprintf(&b, "%s %s\n", p.Name, p.Value)
		}
		return []byte(b.String()), nil
	}
	return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", format, formatJSON, formatText)
}
