package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"threatdash/internal/domain"
	"threatdash/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a threat affects an area",
	Example: `  threatdash check --area OP7 --threat S500
  threatdash check -a op3 -t "R-37M" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		area, _ := cmd.Flags().GetString("area")
		threat, _ := cmd.Flags().GetString("threat")
		asJSON, _ := cmd.Flags().GetBool("json")

		_, match := newMatcher(cfg, logging.Log)
		res, err := match.Check(cmd.Context(), area, threat)
		if err != nil {
			return err
		}
		if asJSON {
			return writeIndented(cmd.OutOrStdout(), res)
		}
		printMatches(cmd.OutOrStdout(), res)
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:       "products [current|conceded|issues]",
	Short:     "List a product dataset grouped by area",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"current", "conceded", "issues"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		names := map[string]domain.DatasetName{
			"current":  domain.DatasetCurrent,
			"conceded": domain.DatasetConcessions,
			"issues":   domain.DatasetIssues,
		}
		_, match := newMatcher(cfg, logging.Log)
		groups, order, err := match.Products(cmd.Context(), names[args[0]])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeIndented(cmd.OutOrStdout(), groups)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "AREA\tPRODUCT\tPLATFORMS\t")
		for _, area := range order {
			for _, p := range groups[area] {
				fmt.Fprintf(w, "%s\t%s\t%d\t\n", area, p.ProductName, len(p.Platforms))
			}
		}
		return w.Flush()
	},
}

func printMatches(out io.Writer, res domain.MatchResult) {
	if res.TotalMatches == 0 {
		fmt.Fprintf(out, "No known vulnerability to %s in %s.\n", res.Threat, res.Area)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPLATFORM\tMESSAGE\t")
	for _, m := range res.Matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", m.Type, m.Platform, m.Message)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d match(es) for %s in %s\n", res.TotalMatches, res.Threat, res.Area)
}

func writeIndented(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("area", "a", "", "area code, e.g. OP7")
	checkCmd.Flags().StringP("threat", "t", "", "threat identifier (case-sensitive)")
	checkCmd.Flags().Bool("json", false, "print the raw JSON result")

	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().Bool("json", false, "print the grouping as JSON")
}
