package grader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport/creditreporttest"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/engine"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
)

var asOf = time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)

const report = `* CAPITAL ONE / 1270246 / BC - Bank Credit Cards
Account Type: Credit Card
Account Condition: Open
Payment Status: Current
Responsibility: Individual
Months Reviewed: 48
Credit Limit $5,000
WELLS FARGO HOME / 4422 / FM - Mortgage Companies
Account Type: Conventional real estate loan
Account Condition: Open
Payment Status: Current
Original Amount $250,000
MIDLAND FUNDING / 8876 / FC - Finance Company
Account Condition: Closed
Payment Status: Unpaid balance reported as loss
Status Date 05/2020
`

func newGrader(t *testing.T) (*Grader, *observer.ObservedLogs) {
	t.Helper()
	eng, err := engine.Default()
	require.NoError(t, err)
	core, logs := observer.New(zap.DebugLevel)
	return New(eng, zap.New(core)), logs
}

func TestGradeDocument(t *testing.T) {
	g, logs := newGrader(t)

	rep, err := g.GradeDocument(context.Background(), "sample.pdf", creditreport.DocumentFromText(report), asOf)
	require.NoError(t, err)

	_, err = uuid.Parse(rep.ID)
	assert.NoError(t, err)
	assert.Equal(t, "sample.pdf", rep.Source)
	assert.Equal(t, "tradeline-default", rep.RuleSet)
	assert.Equal(t, asOf, rep.AsOf)

	// two positive, one stale negative forgiven by redemption
	assert.Equal(t, 2.0, rep.Result.Score)
	assert.Equal(t, 3, rep.Result.Grade)
	assert.Equal(t, 2, rep.Fields[creditreport.FieldPositive])
	assert.Len(t, rep.Result.Breakdown, 5)
	assert.Equal(t, 1, logs.FilterMessage("report graded").Len())
}

func TestGradeDocumentDefaultsToToday(t *testing.T) {
	g, _ := newGrader(t)
	g.Now = func() time.Time { return asOf }

	rep, err := g.GradeDocument(context.Background(), "x", creditreport.DocumentFromText(report), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, asOf, rep.AsOf)
}

func TestGradeDocumentMissingField(t *testing.T) {
	eng, err := engine.Parse([]byte(`
version: 1
fields: [{name: utilization, type: number}]
rules: [{name: low_utilization, fields: [utilization], when: "utilization < 0.3", points: 1}]
bands: [{grade: 1, min: 1}]
`))
	require.NoError(t, err)

	_, err = New(eng, nil).GradeDocument(context.Background(), "x", creditreport.DocumentFromText(report), asOf)
	var missing *fields.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "utilization", missing.Field)
}

func TestGradeDocumentCancelled(t *testing.T) {
	g, _ := newGrader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GradeDocument(ctx, "x", creditreport.DocumentFromText(report), asOf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGradeFileNotPDF(t *testing.T) {
	g, _ := newGrader(t)
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o600))

	_, err := g.GradeFile(context.Background(), path, asOf)
	var extErr *creditreport.ExtractionError
	require.ErrorAs(t, err, &extErr)

	_, err = g.GradeBytes(context.Background(), "upload", nil, asOf)
	require.ErrorAs(t, err, &extErr)
}

func TestGraderWithoutEngine(t *testing.T) {
	_, err := (&Grader{}).GradeDocument(context.Background(), "x", creditreport.DocumentFromText(report), asOf)
	assert.Error(t, err)
}

func TestGradeBytesPDF(t *testing.T) {
	g, _ := newGrader(t)
	data := creditreporttest.PDF(creditreporttest.Lines(report))

	rep, err := g.GradeBytes(context.Background(), "upload.pdf", data, asOf)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Result.Grade)
	assert.Len(t, rep.Analysis.Accounts, 3)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	fromFile, err := g.GradeFile(context.Background(), path, asOf)
	require.NoError(t, err)
	assert.Equal(t, rep.Result, fromFile.Result)
	assert.Equal(t, path, fromFile.Source)
}
