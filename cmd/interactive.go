package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive <report.pdf>",
	Short: "Grade a report, then ask the AI advisor follow-up questions about it",
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
		fmt.Fprintf(out, "Grade %d (%s), score %s\n", rep.Result.Grade, report.GradeLabel(rep.Result.Grade), report.FormatScore(rep.Result.Score))

		fmt.Fprintf(out, "Connecting to %s (Model: %s)...\n", providerName(), cfg.SelectedModel)
		adv, llm, err := newAdvisor(cmd.Context())
		if err != nil {
			return err
		}
		defer llm.Close()

		sess := adv.Session(rep)
		text, err := sess.Explain(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[Advisor]: %s\n", text)

		fmt.Fprintln(out, "\n---------------------------------------------------------")
		fmt.Fprintln(out, "Ask about this report, e.g. 'Which account hurts the most?'")
		fmt.Fprintln(out, "Type 'quit' or 'exit' to stop.")
		fmt.Fprintln(out, "---------------------------------------------------------")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "\n> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "quit" || input == "exit" {
				break
			}
			if input == "" {
				continue
			}

			resp, err := sess.Ask(cmd.Context(), input)
			if err != nil {
				logger.Debug("follow-up failed", zap.Error(err))
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "\n[Advisor]: %s\n", resp)
		}
		return scanner.Err()
	},
}

func init() {
	interactiveCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reference date (YYYY-MM-DD) for account ages, default today")
	rootCmd.AddCommand(interactiveCmd)
}
