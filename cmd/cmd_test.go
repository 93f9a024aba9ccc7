package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/advisor"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/config"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport/creditreporttest"
)

const sampleText = `* CAPITAL ONE / 1270246 / BC - Bank Credit Cards
Account #: 5178XXXX
Account Type: Credit Card
Account Condition: Open
Payment Status: Current
Responsibility: Individual
Months Reviewed: 48
Credit Limit $5,000
MIDLAND FUNDING / 8876 / FC - Finance Company
Account Condition: Closed
Payment Status: Unpaid balance reported as loss
Status Date 05/2023
`

type fakeLLM struct {
	replies []string
	err     error
	models  []string
	asked   [][]advisor.Message
}

func (f *fakeLLM) GenerateResponse(_ context.Context, history []advisor.Message) (string, error) {
	f.asked = append(f.asked, append([]advisor.Message(nil), history...))
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeLLM) ListModels(context.Context) ([]string, error) { return f.models, nil }
func (f *fakeLLM) Close() error                                 { return nil }

func useFakeProvider(t *testing.T, llm *fakeLLM) *[]string {
	t.Helper()
	var calls []string
	orig := newProvider
	newProvider = func(_ context.Context, name, key, model string) (advisor.LLMProvider, error) {
		calls = append(calls, name+"|"+key+"|"+model)
		return llm, nil
	}
	t.Cleanup(func() { newProvider = orig })
	return &calls
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with a private config file
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	if !hasFlag(args, "--config") {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	}
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

func writePDF(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, creditreporttest.PDF(creditreporttest.Lines(text)), 0o600))
	return path
}

func TestAnalyzeText(t *testing.T) {
	path := writePDF(t, t.TempDir(), "report.pdf", sampleText)

	res := run(t, "", "analyze", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Final Grade:   4 (Poor)")
	assert.Contains(t, res.stdout, "[x] positive_tradelines")
	assert.Contains(t, res.stdout, "Reason for rejection: negative: unpaid balance reported as loss")
	assert.Contains(t, res.stdout, "As of:         2024-10-15")
	assert.NotContains(t, res.stdout, "EXPLANATION")
}

func TestAnalyzeJSONAndXLSX(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "report.pdf", sampleText)
	xlsx := filepath.Join(dir, "out.xlsx")

	res := run(t, "", "analyze", "--json", "--xlsx", xlsx, "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)

	var rep struct {
		Source string `json:"source"`
		Result struct {
			Grade int     `json:"grade"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rep))
	assert.Equal(t, path, rep.Source)
	assert.Equal(t, 4, rep.Result.Grade)
	assert.Equal(t, 0.0, rep.Result.Score)

	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnalyzeCustomRules(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "report.pdf", sampleText)
	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(`
version: 1
name: strict
fields: [{name: negative_tradelines, type: number}]
rules:
  - name: any_negative
    fields: [negative_tradelines]
    when: "negative_tradelines > 0.0"
    points: -10
bands: [{grade: 1, min: 0}]
`), 0o600))

	res := run(t, "", "--rules", rules, "analyze", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Rule set:      strict")
	assert.Contains(t, res.stdout, "Final Grade:   5 (Very poor)")
}

func TestAnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just some text"), 0o600))

	res := run(t, "", "analyze", notPDF)
	assert.EqualError(t, res.err, "cannot read credit report: file is not a PDF")

	res = run(t, "", "analyze", filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)

	res = run(t, "", "analyze", "--as-of", "yesterday", notPDF)
	assert.ErrorContains(t, res.err, "--as-of must be a date")

	res = run(t, "", "--rules", filepath.Join(dir, "none.yaml"), "analyze", notPDF)
	assert.ErrorContains(t, res.err, "read rule set")

	res = run(t, "", "analyze")
	assert.Error(t, res.err)
}

func TestAnalyzeExplain(t *testing.T) {
	llm := &fakeLLM{replies: []string{"Your grade is 4 because of a charged off account."}}
	calls := useFakeProvider(t, llm)
	t.Setenv("GOOGLE_API_KEY", "")
	path := writePDF(t, t.TempDir(), "report.pdf", sampleText)

	res := run(t, "", "analyze", "--explain", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "=== EXPLANATION ===\nYour grade is 4 because of a charged off account.")
	assert.Equal(t, []string{"gemini||" + config.DefaultModel}, *calls)
	require.Len(t, llm.asked, 1)
	assert.NotContains(t, llm.asked[0][1].Content, "5178XXXX")
}

func TestAnalyzeExplainFailureStillGrades(t *testing.T) {
	useFakeProvider(t, &fakeLLM{err: errors.New("quota exceeded")})
	path := writePDF(t, t.TempDir(), "report.pdf", sampleText)

	res := run(t, "", "analyze", "--explain", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Final Grade:   4 (Poor)")
	assert.Contains(t, res.stderr, "quota exceeded")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "a.pdf", sampleText)
	writePDF(t, dir, "B.PDF", "No accounts on file")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.pdf"), []byte("broken"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	res := run(t, "", "batch", "--as-of", "2024-10-15", dir)
	assert.EqualError(t, res.err, "1 of 3 reports could not be graded")

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, filepath.Join(dir, "B.PDF")+"\tgrade 4\tscore 0\t0 accepted, 0 rejected, 0 skipped", lines[0])
	assert.Equal(t, filepath.Join(dir, "a.pdf")+"\tgrade 4\tscore 0\t1 accepted, 1 rejected, 0 skipped", lines[1])
	assert.Equal(t, filepath.Join(dir, "c.pdf")+"\terror: cannot read credit report: file is not a PDF", lines[2])
}

func TestBatchEmptyDir(t *testing.T) {
	res := run(t, "", "batch", t.TempDir())
	assert.ErrorContains(t, res.err, "no PDF files")

	res = run(t, "", "batch", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestRules(t *testing.T) {
	res := run(t, "", "rules")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Rule set: tradeline-default")
	assert.Contains(t, res.stdout, "has_bankruptcy")
	assert.Contains(t, res.stdout, "+1 per positive_tradelines")
	assert.Contains(t, res.stdout, "open_mortgage_exception  grade 1")
	assert.Contains(t, res.stdout, "score >= 5\tgrade 1 (Excellent)")
	assert.Contains(t, res.stdout, "otherwise\tgrade 5 (Very poor)")

	res = run(t, "", "rules", "--default-yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "name: tradeline-default")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	res := run(t, "", "--config", path, "config", "set-key", "OpenAI", "sk-test")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "API key saved for provider: openai")

	res = run(t, "", "--config", path, "config", "set-model", "-p", "openai", "-m", "gpt-4o-mini")
	require.NoError(t, res.err)

	saved, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", saved.GetAPIKey("openai"))
	assert.Equal(t, "openai", saved.SelectedProvider)
	assert.Equal(t, "gpt-4o-mini", saved.SelectedModel)

	res = run(t, "", "--config", path, "config", "set-key", "anthropic", "x")
	assert.ErrorContains(t, res.err, `unknown provider "anthropic"`)

	res = run(t, "", "--config", path, "config", "set-model")
	assert.ErrorContains(t, res.err, "--provider or --model is required")
}

func TestListModels(t *testing.T) {
	calls := useFakeProvider(t, &fakeLLM{models: []string{"gemini-1.5-flash", "gemini-1.5-pro"}})
	t.Setenv("GOOGLE_API_KEY", "env-key")

	res := run(t, "", "config", "list-models")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "* gemini-1.5-flash\n  gemini-1.5-pro\n")
	assert.Equal(t, []string{"gemini|env-key|"}, *calls)
}

func TestSetupWizard(t *testing.T) {
	useFakeProvider(t, &fakeLLM{models: []string{"gpt-4o", "gpt-4o-mini"}})
	path := filepath.Join(t.TempDir(), "config.yaml")

	res := run(t, "2\nsk-live\n2\n", "--config", path, "config", "setup")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Setup Complete!")

	saved, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", saved.SelectedProvider)
	assert.Equal(t, "gpt-4o-mini", saved.SelectedModel)
	assert.Equal(t, "sk-live", saved.GetAPIKey("openai"))

	res = run(t, "9\n", "--config", path, "config", "setup")
	assert.ErrorContains(t, res.err, "invalid provider choice")
}

func TestInteractive(t *testing.T) {
	llm := &fakeLLM{replies: []string{"It is a 4.", "Pay the collection."}}
	useFakeProvider(t, llm)
	path := writePDF(t, t.TempDir(), "report.pdf", sampleText)

	res := run(t, "\nwhat should I fix?\nquit\nnever sent\n", "interactive", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Grade 4 (Poor), score 0")
	assert.Contains(t, res.stdout, "[Advisor]: It is a 4.")
	assert.Contains(t, res.stdout, "[Advisor]: Pay the collection.")

	require.Len(t, llm.asked, 2)
	last := llm.asked[1]
	assert.Equal(t, advisor.Message{Role: "user", Content: "what should I fix?"}, last[len(last)-1])
}

func TestInteractiveConnectsToResolvedProvider(t *testing.T) {
	llm := &fakeLLM{replies: []string{"It is a 4."}}
	calls := useFakeProvider(t, llm)
	dir := t.TempDir()
	path := writePDF(t, dir, "report.pdf", sampleText)
	conf := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("selected_provider: \"\"\nselected_model: m1\n"), 0o600))
	t.Setenv("GOOGLE_API_KEY", "")

	res := run(t, "quit\n", "--config", conf, "interactive", "--as-of", "2024-10-15", path)
	require.NoError(t, res.err)

	connecting := strings.Index(res.stdout, "Connecting to gemini (Model: m1)...")
	require.GreaterOrEqual(t, connecting, 0, res.stdout)
	assert.Less(t, connecting, strings.Index(res.stdout, "[Advisor]: It is a 4."))
	assert.Equal(t, []string{"gemini||m1"}, *calls)
}

func TestInteractiveAnnouncesProviderBeforeConnecting(t *testing.T) {
	orig := newProvider
	newProvider = func(_ context.Context, name, key, model string) (advisor.LLMProvider, error) {
		return nil, errors.New("no api key")
	}
	t.Cleanup(func() { newProvider = orig })
	path := writePDF(t, t.TempDir(), "report.pdf", sampleText)

	res := run(t, "", "interactive", "--as-of", "2024-10-15", path)
	require.EqualError(t, res.err, "no api key")
	assert.Contains(t, res.stdout, "Connecting to gemini (Model: gemini-1.5-flash)...")
}
