package creditreport

import (
	"regexp"
	"strconv"
	"strings"
)

// Tradeline is one account as printed in the report. Optional values are nil
// when the report does not show them.
type Tradeline struct {
	AccountName        string `json:"account_name"`
	AccountNumber      string `json:"account_number,omitempty"`
	AccountType        string `json:"account_type,omitempty"`
	AccountCondition   string `json:"account_condition,omitempty"`
	PaymentStatus      string `json:"payment_status,omitempty"`
	Responsibility     string `json:"responsibility,omitempty"`
	MonthsReviewed     *int   `json:"months_reviewed,omitempty"`
	CreditLimit        *int64 `json:"credit_limit,omitempty"`
	OriginalAmount     *int64 `json:"original_amount,omitempty"`
	HighBalance        *int64 `json:"high_balance,omitempty"`
	OpenDate           string `json:"open_date,omitempty"`   // as printed
	StatusDate         string `json:"status_date,omitempty"` // MM/YYYY
	MedicalOrEducation bool   `json:"medical_or_education"`
	Raw                string `json:"-"`
}

var (
	headerRe         = regexp.MustCompile(`^(?:\* )?.*/.*/.* - `)
	accountTypeRe    = regexp.MustCompile(`Account\s*Type:\s*(.*)`)
	accountNumberRe  = regexp.MustCompile(`Account #:\s*([\dXx*]+)`)
	conditionRe      = regexp.MustCompile(`Account\s*Condition:\s*(.*)`)
	paymentStatusRe  = regexp.MustCompile(`Payment\s*Status:\s*(.*)`)
	monthsReviewedRe = regexp.MustCompile(`Months\s*(?:Reviewed|Review\s*ed)\s*:\s*(\d+)`)
	highBalanceRe    = regexp.MustCompile(`High\s*Balance\s*\$([\d,]+)`)
	responsibilityRe = regexp.MustCompile(`Responsibility:\s*(.*)`)
	openDateRe       = regexp.MustCompile(`Open\s*Date\s*([\d/]+)`)
)

// ParseTradelines splits report text into account chunks and extracts the fields
// of each. A chunk starts at a header line such as
// "CAPITAL ONE / 1270246 / BC - Bank Credit Cards"; text before the first header
// is ignored.
func ParseTradelines(text string) []Tradeline {
	var chunks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if headerRe.MatchString(line) {
			if current != nil {
				chunks = append(chunks, current)
			}
			current = []string{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	if current != nil {
		chunks = append(chunks, current)
	}

	out := make([]Tradeline, 0, len(chunks))
	for _, lines := range chunks {
		out = append(out, parseChunk(lines))
	}
	return out
}

func parseChunk(lines []string) Tradeline {
	chunk := strings.Join(lines, "\n")
	lower := strings.ToLower(chunk)

	t := Tradeline{
		AccountName:      lines[0],
		AccountType:      firstLine(accountTypeRe, chunk),
		AccountNumber:    firstLine(accountNumberRe, chunk),
		AccountCondition: firstLine(conditionRe, chunk),
		PaymentStatus:    firstLine(paymentStatusRe, chunk),
		Responsibility:   firstLine(responsibilityRe, chunk),
		OpenDate:         firstLine(openDateRe, chunk),
		Raw:              chunk,
		MedicalOrEducation: strings.Contains(lower, "student loan") ||
			strings.Contains(lower, "education loan") ||
			strings.Contains(lower, "medical"),
	}

	if m := monthsReviewedRe.FindStringSubmatch(chunk); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			t.MonthsReviewed = &n
		}
	}
	if n, ok := amountAfter(lines, "Credit", "Limit"); ok {
		t.CreditLimit = &n
	}
	if n, ok := amountAfter(lines, "Original", "Amount"); ok {
		t.OriginalAmount = &n
	}
	if m := highBalanceRe.FindStringSubmatch(cleanText(chunk)); m != nil {
		if n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64); err == nil {
			t.HighBalance = &n
		}
	}
	if d, ok := statusDate(lines); ok {
		t.StatusDate = d
	}
	return t
}

// firstLine returns the first line of the regexp's capture, trimmed
func firstLine(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	v, _, _ := strings.Cut(m[1], "\n")
	return cleanText(v)
}
