package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Grade every PDF in a directory, one summary line per file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(asOfFlag)
		if err != nil {
			return err
		}
		files, err := pdfFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no PDF files in %s", args[0])
		}
		g, err := newGrader()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var failed int
		for _, f := range files {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			rep, err := g.GradeFile(cmd.Context(), f, asOf)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s\terror: %v\n", f, userError(err))
				continue
			}
			fmt.Fprintln(out, report.SummaryLine(rep))
		}

		logger.Info("batch finished", zap.Int("files", len(files)), zap.Int("failed", failed))
		if failed > 0 {
			return fmt.Errorf("%d of %d reports could not be graded", failed, len(files))
		}
		return nil
	},
}

// pdfFiles lists the *.pdf files directly inside dir, case-insensitively, sorted
func pdfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func init() {
	batchCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reference date (YYYY-MM-DD) for account ages, default today")
	rootCmd.AddCommand(batchCmd)
}
