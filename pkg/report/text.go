package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
)

const notAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// FormatScore prints a score without trailing zeros
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FormatContribution prints a signed score contribution
func FormatContribution(c float64) string {
	if c > 0 {
		return "+" + FormatScore(c)
	}
	return FormatScore(c)
}

// Amount prints a whole dollar amount with thousands separators, or N/A
func Amount(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return printer.Sprintf("$%d", *v)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteText renders the full plain-text report
func WriteText(w io.Writer, rep *grader.Report) error {
	tw := &textWriter{w: w}
	res := rep.Result
	a := rep.Analysis

	tw.line("=== CREDIT REPORT ANALYSIS ===")
	tw.line("Source:        %s", rep.Source)
	tw.line("Rule set:      %s", rep.RuleSet)
	tw.line("As of:         %s", rep.AsOf.Format("2006-01-02"))
	tw.line("Final Score:   %s", FormatScore(res.Score))
	tw.line("Final Grade:   %d (%s)", res.Grade, GradeLabel(res.Grade))
	if res.Grade != res.BandGrade {
		tw.line("Band Grade:    %d (before grade rules)", res.BandGrade)
	}
	tw.line("Bankruptcy on file: %s", yesNo(a.HasBankruptcy))
	tw.line("Positive tradelines: %d", a.Positive)
	tw.line("Negative tradelines: %d", a.Negative)
	if a.Negative > 0 {
		tw.line("Negative tradelines older than 2 years: %d (%.0f%%)", a.NegativeOlder2y, a.PctNegativeOlder2y*100)
	}

	tw.line("")
	tw.line("=== RULE BREAKDOWN ===")
	for _, o := range res.Breakdown {
		mark := " "
		if o.Matched {
			mark = "x"
		}
		effect := FormatContribution(o.Contribution)
		if o.Grade != 0 {
			effect = fmt.Sprintf("grade %d", o.Grade)
		}
		tw.line("[%s] %-26s %-8s %s", mark, o.Rule, effect, o.Message)
	}

	sections := []struct {
		title  string
		status creditreport.Status
		label  string
	}{
		{"ACCEPTED TRADELINES", creditreport.Accepted, "Reasons"},
		{"REJECTED TRADELINES", creditreport.Rejected, "Reason for rejection"},
		{"SKIPPED TRADELINES", creditreport.Skipped, "Reason for skipping"},
	}
	for _, s := range sections {
		tw.line("")
		tw.line("=== %s ===", s.title)
		accounts := a.ByStatus(s.status)
		if len(accounts) == 0 {
			tw.line("(none)")
		}
		for i, acc := range accounts {
			writeAccount(tw, i+1, acc, s.label)
		}
	}

	tw.line("")
	tw.line("=== DETAILED EVALUATION ===")
	tw.line("Total tradelines analyzed: %d", len(a.Accounts))
	tw.line("Tradelines accepted: %d", a.Positive)
	tw.line("Tradelines rejected: %d", a.Negative)
	tw.line("Tradelines skipped: %d", a.Skipped)
	return tw.err
}

func writeAccount(tw *textWriter, n int, acc creditreport.Account, reasonLabel string) {
	tw.line("%d. %s (Account #: %s)", n, acc.AccountName, orNA(acc.AccountNumber))
	tw.line("   Type: %s", orNA(acc.AccountType))
	tw.line("   Status: %s / %s", orNA(acc.AccountCondition), orNA(acc.PaymentStatus))
	tw.line("   Credit Limit: %s", Amount(acc.CreditLimit))
	tw.line("   Original Amount: %s", Amount(acc.OriginalAmount))
	tw.line("   High Balance: %s", Amount(acc.HighBalance))
	tw.line("   Open Date: %s", orNA(acc.OpenDate))
	tw.line("   Status Date: %s", orNA(acc.StatusDate))
	tw.line("   Responsibility: %s", orNA(acc.Responsibility))
	months := notAvailable
	if acc.MonthsReviewed != nil {
		months = strconv.Itoa(*acc.MonthsReviewed)
	}
	tw.line("   Months Reviewed: %s", months)
	tw.line("   Mortgage: %s", yesNo(acc.Evaluation.Mortgage))
	tw.line("   %s: %s", reasonLabel, strings.Join(acc.Evaluation.Reasons, " / "))
}

// SummaryLine is the one-line form used when grading many files
func SummaryLine(rep *grader.Report) string {
	a := rep.Analysis
	return fmt.Sprintf("%s\tgrade %d\tscore %s\t%d accepted, %d rejected, %d skipped",
		rep.Source, rep.Result.Grade, FormatScore(rep.Result.Score), a.Positive, a.Negative, a.Skipped)
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, rep *grader.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// textWriter keeps the first write error so callers check once at the end
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	_, t.err = io.WriteString(t.w, strings.TrimRight(s, " ")+"\n")
}
