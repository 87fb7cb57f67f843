package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/platform/builtin"
)

var formatsJSON bool

func init() {
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(formatsCmd)
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported dialects and what each can carry",
	Long: `List every dialect canon converts between, with the support each one
has for the canonical section kinds:

  native       the dialect has a direct equivalent
  approximate  the content survives in a weaker form
  drop         the content is lost and reported as a warning

A "*" on the rules column means rule items are flattened into prose.

The REQUIRED column lists options a conversion into the dialect must be
given when the package does not already carry them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFormats(cmd.OutOrStdout())
	},
}

// formatInfoJSON describes one dialect in JSON output.
type formatInfoJSON struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName"`
	Extension      string            `json:"extension"`
	Required       []string          `json:"required"`
	Hints          []string          `json:"hints"`
	CollapsesRules bool              `json:"collapsesRules"`
	Sections       map[string]string `json:"sections"`
}

// tableKinds are the kinds shown as columns; metadata and custom are
// carried by every dialect.
var tableKinds = []canonical.Kind{
	canonical.KindInstructions, canonical.KindRules, canonical.KindExamples,
	canonical.KindTools, canonical.KindPersona, canonical.KindContext,
}

func runFormats(w io.Writer) error {
	codecs := builtin.Codecs()

	if formatsJSON {
		out := make([]formatInfoJSON, 0, len(codecs))
		for _, c := range codecs {
			caps := c.Capabilities()
			info := formatInfoJSON{
				Name:           c.Format().String(),
				DisplayName:    c.Format().DisplayName(),
				Extension:      c.Format().Extension(),
				Required:       append([]string{}, caps.Required...),
				Hints:          []string{},
				CollapsesRules: caps.CollapsesRules,
				Sections:       map[string]string{},
			}
			for _, h := range caps.Hints {
				info.Hints = append(info.Hints, string(h))
			}
			for _, k := range canonical.Kinds() {
				info.Sections[string(k)] = caps.Support(k).String()
			}
			out = append(out, info)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"FORMAT"}
	for _, k := range tableKinds {
		header = append(header, strings.ToUpper(string(k)))
	}
	header = append(header, "REQUIRED")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, c := range codecs {
		caps := c.Capabilities()
		row := []string{c.Format().String()}
		for _, k := range tableKinds {
			row = append(row, supportCell(caps, k))
		}
		required := "-"
		if len(caps.Required) > 0 {
			required = strings.Join(caps.Required, ",")
		}
		row = append(row, required)
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func supportCell(caps platform.Capabilities, k canonical.Kind) string {
	s := caps.Support(k).String()
	if k == canonical.KindRules && caps.CollapsesRules {
		return s + "*"
	}
	return s
}
