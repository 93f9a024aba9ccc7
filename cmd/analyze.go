package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

var (
	jsonOutput  bool
	xlsxPath    string
	asOfFlag    string
	explainFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.pdf>",
	Short: "Grade a single credit report PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(asOfFlag)
		if err != nil {
			return err
		}
		g, err := newGrader()
		if err != nil {
			return err
		}

		rep, err := g.GradeFile(cmd.Context(), args[0], asOf)
		if err != nil {
			return userError(err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			err = report.WriteJSON(out, rep)
		} else {
			err = report.WriteText(out, rep)
		}
		if err != nil {
			return err
		}

		if xlsxPath != "" {
			if err := report.WriteXLSXFile(xlsxPath, rep); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			logger.Info("workbook written", zap.String("path", xlsxPath))
		}

		if explainFlag {
			// the grade is already printed; a provider failure only warns
			adv, llm, err := newAdvisor(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: advisor unavailable: %v\n", err)
				return nil
			}
			defer llm.Close()

			text, err := adv.Explain(cmd.Context(), rep)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "\n=== EXPLANATION ===\n%s\n", text)
		}
		return nil
	},
}

// parseAsOf reads the --as-of flag; empty means today
func parseAsOf(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of must be a date in YYYY-MM-DD form: %w", err)
	}
	return t, nil
}

// userError replaces err by its user-facing message, logging the detail.
// File system errors name a path the user gave us and are kept as they are.
func userError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return err
	}
	msg, expected := report.UserMessage(err)
	if expected {
		logger.Debug("grading failed", zap.Error(err))
	} else {
		logger.Error("grading failed", zap.Error(err))
	}
	return errors.New(msg)
}

func init() {
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	analyzeCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write an XLSX workbook to this path")
	analyzeCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reference date (YYYY-MM-DD) for account ages, default today")
	analyzeCmd.Flags().BoolVar(&explainFlag, "explain", false, "Append a plain-language explanation from the configured AI provider")
	rootCmd.AddCommand(analyzeCmd)
}
