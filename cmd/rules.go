package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/engine"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

var dumpDefault bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the fields, rules and grade bands of the active rule set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if dumpDefault {
			_, err := out.Write(engine.DefaultYAML())
			return err
		}

		eng, err := loadEngine()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Rule set: %s\n\nFields:\n", eng.Name())
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, f := range eng.Fields() {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.Kind, f.Description)
		}
		tw.Flush()

		fmt.Fprintln(out, "\nRules:")
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, r := range eng.Rules() {
			fmt.Fprintf(tw, "  %s\t%s\twhen %s\n", r.Name, effect(r), r.When)
		}
		tw.Flush()

		fmt.Fprintln(out, "\nBands:")
		for _, b := range eng.Bands() {
			fmt.Fprintf(out, "  score >= %s\tgrade %d (%s)\n", report.FormatScore(b.Min), b.Grade, report.GradeLabel(b.Grade))
		}
		fmt.Fprintf(out, "  otherwise\tgrade %d (%s)\n", eng.FallbackGrade(), report.GradeLabel(eng.FallbackGrade()))
		return nil
	},
}

func effect(r engine.RuleSpec) string {
	if r.Grade != 0 {
		return fmt.Sprintf("grade %d", r.Grade)
	}
	var points float64
	if r.Points != nil {
		points = *r.Points
	}
	s := report.FormatContribution(points)
	if r.Per != "" {
		s += " per " + r.Per
	}
	return strings.TrimSpace(s)
}

func init() {
	rulesCmd.Flags().BoolVar(&dumpDefault, "default-yaml", false, "Print the built-in rule set as YAML, a starting point for --rules")
	rootCmd.AddCommand(rulesCmd)
}
