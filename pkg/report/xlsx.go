package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
)

const (
	summarySheet    = "Summary"
	rulesSheet      = "Rules"
	tradelinesSheet = "Tradelines"
)

// XLSX renders the report as a workbook with Summary, Rules and Tradelines sheets
func XLSX(rep *grader.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// the default "Sheet1" becomes the summary
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	for _, s := range []string{rulesSheet, tradelinesSheet} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, err
		}
	}

	if err := writeSummarySheet(f, rep); err != nil {
		return nil, err
	}
	if err := writeRows(f, rulesSheet, []string{"Rule", "Matched", "Contribution", "Grade", "Message"}, ruleRows(rep)); err != nil {
		return nil, err
	}
	if err := writeRows(f, tradelinesSheet, []string{
		"Account", "Account #", "Type", "Condition", "Payment Status", "Responsibility",
		"Months Reviewed", "Credit Limit", "Original Amount", "High Balance",
		"Open Date", "Status Date", "Mortgage", "Status", "Reasons",
	}, tradelineRows(rep)); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 34)
	_ = f.SetColWidth(summarySheet, "B", "B", 24)
	_ = f.SetColWidth(rulesSheet, "A", "A", 28)
	_ = f.SetColWidth(rulesSheet, "E", "E", 60)
	_ = f.SetColWidth(tradelinesSheet, "A", "A", 48)
	_ = f.SetColWidth(tradelinesSheet, "O", "O", 80)

	idx, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSXFile writes the workbook to path
func WriteXLSXFile(path string, rep *grader.Report) error {
	data, err := XLSX(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeSummarySheet(f *excelize.File, rep *grader.Report) error {
	a := rep.Analysis
	rows := [][]any{
		{"Source", rep.Source},
		{"Report ID", rep.ID},
		{"Rule set", rep.RuleSet},
		{"As of", rep.AsOf.Format("2006-01-02")},
		{"Final grade", rep.Result.Grade},
		{"Band grade", rep.Result.BandGrade},
		{"Score", rep.Result.Score},
		{"Bankruptcy on file", yesNo(a.HasBankruptcy)},
		{"Tradelines analyzed", len(a.Accounts)},
		{"Accepted", a.Positive},
		{"Rejected", a.Negative},
		{"Skipped", a.Skipped},
		{"Negatives older than 2 years", a.NegativeOlder2y},
		{"Negatives older than 3 years", a.StaleNegative},
		{"Open mortgages", a.OpenMortgages},
	}
	if err := writeRows(f, summarySheet, []string{"Item", "Value"}, rows); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{GradeColor(rep.Result.Grade)}},
	})
	if err != nil {
		return err
	}
	// row 6 holds the final grade (header + 4 rows above it)
	return f.SetCellStyle(summarySheet, "B6", "B6", style)
}

func ruleRows(rep *grader.Report) [][]any {
	rows := make([][]any, 0, len(rep.Result.Breakdown))
	for _, o := range rep.Result.Breakdown {
		var grade any
		if o.Grade != 0 {
			grade = o.Grade
		}
		rows = append(rows, []any{o.Rule, yesNo(o.Matched), o.Contribution, grade, o.Message})
	}
	return rows
}

func tradelineRows(rep *grader.Report) [][]any {
	rows := make([][]any, 0, len(rep.Analysis.Accounts))
	for _, acc := range rep.Analysis.Accounts {
		var months any
		if acc.MonthsReviewed != nil {
			months = *acc.MonthsReviewed
		}
		rows = append(rows, []any{
			acc.AccountName, acc.AccountNumber, acc.AccountType, acc.AccountCondition,
			acc.PaymentStatus, acc.Responsibility, months,
			optional(acc.CreditLimit), optional(acc.OriginalAmount), optional(acc.HighBalance),
			acc.OpenDate, acc.StatusDate, yesNo(acc.Evaluation.Mortgage),
			string(acc.Evaluation.Status), strings.Join(acc.Evaluation.Reasons, " / "),
		})
	}
	return rows
}

func optional(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
