package creditreport

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of classifying a tradeline
type Status string

// An account that is both positive and negative is shown as Rejected.
const (
	Accepted Status = "accepted"
	Rejected Status = "rejected"
	Skipped  Status = "skipped"
)

const (
	minPositiveAmount  = 1000
	minMortgageAmount  = 30000
	minMonthsOnFile    = 12
	negativeDaysMarker = " days past due"
)

var pastDueDays = []string{"60", "90", "120", "150", "180"}

// wasPastDueDays are the "current/was N days past due" statuses that are not current
var wasPastDueDays = []string{"30", "60", "90", "120", "150", "180"}

// Evaluation explains how a tradeline was classified. Positive and Negative are
// decided independently and an account can count in both.
type Evaluation struct {
	Status            Status   `json:"status"`
	Positive          bool     `json:"positive"`
	Negative          bool     `json:"negative"`
	Mortgage          bool     `json:"mortgage"`
	ConventionalFHA   bool     `json:"conventional_fha"`
	BankruptcyRelated bool     `json:"bankruptcy_related"`
	Reasons           []string `json:"reasons"`
}

type accountFacts struct {
	medicalOrEdu bool
	auto         bool
	selfReported bool
	open         bool
	current      bool
	amountOK     bool
	months       bool
	individual   bool
}

// Classify decides whether a tradeline counts as positive, negative or neither.
// asOf is the reference date used for account age when the months reviewed are not
// printed.
func Classify(t Tradeline, asOf time.Time, hasBankruptcy bool) Evaluation {
	condition := strings.ToLower(t.AccountCondition)
	status := strings.ToLower(t.PaymentStatus)
	accountType := strings.ToLower(t.AccountType)

	if hasBankruptcy && (strings.Contains(condition, "discharged through bankruptcy") ||
		strings.Contains(condition, "included in bankruptcy")) {
		return Evaluation{
			Status:            Skipped,
			BankruptcyRelated: true,
			Reasons:           []string{"excluded: debt included in or discharged through bankruptcy"},
		}
	}

	ev := Evaluation{
		Mortgage: strings.Contains(accountType, "real estate loan") ||
			strings.Contains(accountType, "mortgage"),
		ConventionalFHA: strings.Contains(accountType, "conventional real estate loan") ||
			strings.Contains(accountType, "fha real estate loan"),
	}
	f := facts(t, asOf, accountType, condition, status)

	var positive, shortfalls []string
	if ev.ConventionalFHA {
		original := deref(t.OriginalAmount)
		if f.open && f.current && original > minMortgageAmount {
			positive = []string{fmt.Sprintf("mortgage in good standing: open, current, original amount $%d over $%d", original, minMortgageAmount)}
		} else {
			shortfalls = mortgageShortfalls(f, original)
		}
	} else if f.open && f.current && f.amountOK && f.months && f.individual &&
		!f.medicalOrEdu && !f.auto && !f.selfReported {
		positive = []string{"meets every positive criterion: open, current, $1,000+ limit or amount, 12+ months, individual"}
	} else {
		shortfalls = positiveShortfalls(f)
	}
	negatives := negativeReasons(f, condition, status)

	ev.Positive = len(positive) > 0
	ev.Negative = len(negatives) > 0
	switch {
	case ev.Negative:
		ev.Status = Rejected
		ev.Reasons = append(positive, negatives...)
	case ev.Positive:
		ev.Status = Accepted
		ev.Reasons = positive
	default:
		ev.Status = Skipped
		ev.Reasons = shortfalls
	}
	return ev
}

func facts(t Tradeline, asOf time.Time, accountType, condition, status string) accountFacts {
	f := accountFacts{
		medicalOrEdu: t.MedicalOrEducation ||
			strings.Contains(accountType, "education loan") ||
			strings.Contains(accountType, "student loan") ||
			strings.Contains(accountType, "medical"),
		auto:         strings.Contains(accountType, "auto loan") || strings.Contains(accountType, "auto lease"),
		selfReported: strings.Contains(accountType, "selfreported"),
		open:         strings.Contains(condition, "open"),
		current:      strings.Contains(status, "current") && !wasPastDue(status),
		amountOK:     deref(t.CreditLimit) >= minPositiveAmount || deref(t.OriginalAmount) >= minPositiveAmount,
		individual:   strings.Contains(strings.ToLower(t.Responsibility), "individual"),
	}
	switch {
	case t.MonthsReviewed != nil:
		f.months = *t.MonthsReviewed >= minMonthsOnFile
	case t.OpenDate != "":
		if opened, ok := ParseMonth(t.OpenDate); ok {
			f.months = monthsBetween(opened, asOf) >= minMonthsOnFile
		}
	}
	return f
}

func wasPastDue(status string) bool {
	for _, days := range wasPastDueDays {
		if strings.Contains(status, "current/was "+days+negativeDaysMarker) {
			return true
		}
	}
	return false
}

// negativeReasons lists the derogatory markers on an account. Medical and
// education accounts never count against the score.
func negativeReasons(f accountFacts, condition, status string) []string {
	if f.medicalOrEdu {
		return nil
	}
	var reasons []string
	if strings.Contains(condition, "unpaid balance reported as loss") ||
		strings.Contains(status, "unpaid balance reported as loss") {
		reasons = append(reasons, "negative: unpaid balance reported as loss")
	}
	if strings.Contains(status, "seriously past due") {
		reasons = append(reasons, "negative: seriously past due")
	}
	if strings.Contains(condition, "legally paid in full for less than full balance") &&
		strings.Contains(status, "unpaid balance reported as loss") {
		reasons = append(reasons, "negative: settled for less than the full balance with a loss")
	}
	if !strings.Contains(condition, "paid/zero balance") {
		for _, days := range pastDueDays {
			marker := days + negativeDaysMarker
			if strings.Contains(status, marker) && !strings.Contains(status, "current/was "+marker) {
				reasons = append(reasons, "negative: account "+marker)
				break
			}
		}
	}
	return reasons
}

func positiveShortfalls(f accountFacts) []string {
	var reasons []string
	if f.medicalOrEdu {
		reasons = append(reasons, "medical or education account excluded")
	}
	if f.auto {
		reasons = append(reasons, "auto loan or lease excluded from positive scoring")
	}
	if f.selfReported {
		reasons = append(reasons, "self-reported account excluded from positive scoring")
	}
	if !f.open {
		reasons = append(reasons, "account is not open")
	}
	if !f.current {
		reasons = append(reasons, "payment status is not current")
	}
	if !f.amountOK {
		reasons = append(reasons, "credit limit and original amount below $1,000")
	}
	if !f.months {
		reasons = append(reasons, "fewer than 12 months on file")
	}
	if !f.individual {
		reasons = append(reasons, "responsibility is not individual")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "does not meet the positive or negative criteria")
	}
	return reasons
}

func mortgageShortfalls(f accountFacts, original int64) []string {
	var reasons []string
	if !f.open {
		reasons = append(reasons, "mortgage is not open")
	}
	if !f.current {
		reasons = append(reasons, "mortgage payment status is not current")
	}
	if original <= minMortgageAmount {
		reasons = append(reasons, fmt.Sprintf("mortgage original amount $%d is not over $%d", original, minMortgageAmount))
	}
	return reasons
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
