package creditreport

import (
	"strings"
	"time"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
)

// Field names produced by Analysis.Fields
const (
	FieldHasBankruptcy     = "has_bankruptcy"
	FieldPositive          = "positive_tradelines"
	FieldNegative          = "negative_tradelines"
	FieldStaleNegative     = "stale_negative_tradelines"
	FieldPctNegativeOld    = "pct_negative_older_2y"
	FieldOpenMortgages     = "open_mortgages"
	FieldTotalTradelines   = "total_tradelines"
	FieldSkippedTradelines = "skipped_tradelines"
)

// Account is a tradeline together with its classification
type Account struct {
	Tradeline
	Evaluation Evaluation `json:"evaluation"`
}

// Analysis is everything derived from one report before grading
type Analysis struct {
	AsOf               time.Time `json:"as_of"`
	HasBankruptcy      bool      `json:"has_bankruptcy"`
	Accounts           []Account `json:"accounts"`
	Positive           int       `json:"positive"`
	Negative           int       `json:"negative"`
	Skipped            int       `json:"skipped"`
	NegativeOlder2y    int       `json:"negative_older_2y"`
	StaleNegative      int       `json:"stale_negative"` // negatives older than three years
	PctNegativeOlder2y float64   `json:"pct_negative_older_2y"`
	OpenMortgages      int       `json:"open_mortgages"`
}

// Analyze parses and classifies every tradeline in doc relative to asOf
func Analyze(doc Document, asOf time.Time) Analysis {
	text := doc.Text()
	a := Analysis{
		AsOf:          asOf,
		HasBankruptcy: strings.Contains(strings.ToLower(text), "bankruptcy"),
	}
	twoYears := asOf.AddDate(-2, 0, 0)
	threeYears := asOf.AddDate(-3, 0, 0)

	for _, t := range ParseTradelines(text) {
		ev := Classify(t, asOf, a.HasBankruptcy)
		a.Accounts = append(a.Accounts, Account{Tradeline: t, Evaluation: ev})

		if ev.Positive {
			a.Positive++
			if ev.Mortgage {
				a.OpenMortgages++
			}
		}
		if ev.Negative {
			a.Negative++
			if d, ok := ParseMonth(t.StatusDate); ok {
				if d.Before(twoYears) {
					a.NegativeOlder2y++
				}
				if d.Before(threeYears) {
					a.StaleNegative++
				}
			}
		}
		if !ev.Positive && !ev.Negative {
			a.Skipped++
		}
	}
	if a.Negative > 0 {
		a.PctNegativeOlder2y = float64(a.NegativeOlder2y) / float64(a.Negative)
	}
	return a
}

// Fields returns the field mapping graded by the rule engine
func (a Analysis) Fields() fields.Mapping {
	return fields.Mapping{
		FieldHasBankruptcy:     a.HasBankruptcy,
		FieldPositive:          a.Positive,
		FieldNegative:          a.Negative,
		FieldStaleNegative:     a.StaleNegative,
		FieldPctNegativeOld:    a.PctNegativeOlder2y,
		FieldOpenMortgages:     a.OpenMortgages,
		FieldTotalTradelines:   len(a.Accounts),
		FieldSkippedTradelines: a.Skipped,
	}
}

// ByStatus returns the accounts counted under s, in report order. Accepted
// lists every positive account and Rejected every negative one, so an account
// that counts both ways appears in both.
func (a Analysis) ByStatus(s Status) []Account {
	var out []Account
	for _, acc := range a.Accounts {
		ev := acc.Evaluation
		var in bool
		switch s {
		case Accepted:
			in = ev.Positive
		case Rejected:
			in = ev.Negative
		case Skipped:
			in = !ev.Positive && !ev.Negative
		}
		if in {
			out = append(out, acc)
		}
	}
	return out
}
