package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/logging"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

// Advisor asks an LLM to explain a grade in plain language
type Advisor struct {
	llm    LLMProvider
	logger *zap.Logger
}

func New(llm LLMProvider, logger *zap.Logger) *Advisor {
	return &Advisor{llm: llm, logger: logging.Nop(logger)}
}

// Explain returns the provider's explanation of rep. Only the grade, the rule
// breakdown and the classification reasons are sent; account numbers and the
// report text never leave the process.
func (a *Advisor) Explain(ctx context.Context, rep *grader.Report) (string, error) {
	return a.Session(rep).Explain(ctx)
}

// Session is a conversation about one graded report
type Session struct {
	advisor  *Advisor
	reportID string
	history  []Message
}

// Session starts a conversation whose first turn is the report summary
func (a *Advisor) Session(rep *grader.Report) *Session {
	return &Session{
		advisor:  a,
		reportID: rep.ID,
		history: []Message{
			{Role: "system", Content: GetSystemPrompt()},
			{Role: "user", Content: Summarize(rep)},
		},
	}
}

// Explain asks for the initial explanation of the grade
func (s *Session) Explain(ctx context.Context) (string, error) {
	return s.send(ctx)
}

// Ask sends a follow-up question. The previous turns are kept so the provider
// sees the whole conversation.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	s.history = append(s.history, Message{Role: "user", Content: question})
	out, err := s.send(ctx)
	if err != nil {
		// drop the unanswered question so the caller can retry
		s.history = s.history[:len(s.history)-1]
	}
	return out, err
}

func (s *Session) send(ctx context.Context) (string, error) {
	s.advisor.logger.Debug("requesting explanation", zap.String("id", s.reportID), zap.Int("turns", len(s.history)))

	out, err := s.advisor.llm.GenerateResponse(ctx, s.history)
	if err != nil {
		return "", fmt.Errorf("advisor: %w", err)
	}
	out = strings.TrimSpace(out)
	s.history = append(s.history, Message{Role: "model", Content: out})
	return out, nil
}

// History returns a copy of the conversation so far
func (s *Session) History() []Message {
	return append([]Message(nil), s.history...)
}

// Summarize renders the facts the advisor is allowed to see
func Summarize(rep *grader.Report) string {
	var sb strings.Builder
	res := rep.Result
	a := rep.Analysis

	fmt.Fprintf(&sb, "Final grade: %d (%s)\n", res.Grade, report.GradeLabel(res.Grade))
	fmt.Fprintf(&sb, "Score: %s\n", report.FormatScore(res.Score))
	fmt.Fprintf(&sb, "Bankruptcy on file: %t\n", a.HasBankruptcy)
	fmt.Fprintf(&sb, "Accounts: %d counted positive, %d counted negative, %d not counted\n",
		a.Positive, a.Negative, a.Skipped)

	sb.WriteString("\nRule breakdown:\n")
	for _, o := range res.Breakdown {
		fmt.Fprintf(&sb, "- %s: matched=%t contribution=%s", o.Rule, o.Matched, report.FormatContribution(o.Contribution))
		if o.Message != "" {
			fmt.Fprintf(&sb, " (%s)", o.Message)
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("\nAccounts:\n")
	for _, acc := range a.Accounts {
		kind := acc.AccountType
		if kind == "" {
			kind = "unknown type"
		}
		fmt.Fprintf(&sb, "- %s account, %s: %s\n", kind, acc.Evaluation.Status, strings.Join(acc.Evaluation.Reasons, "; "))
	}
	if len(a.Accounts) == 0 {
		sb.WriteString("- none found\n")
	}
	if a.Negative > 0 {
		fmt.Fprintf(&sb, "\nNegative accounts older than two years: %d of %d; older than three years: %d\n",
			a.NegativeOlder2y, a.Negative, a.StaleNegative)
	}
	return sb.String()
}
