package grader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/engine"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/logging"
)

// Grader runs the whole pipeline: PDF -> text -> analysis -> field mapping -> grade.
// It is safe for concurrent use; every call works on its own values.
type Grader struct {
	Engine *engine.Engine
	Logger *zap.Logger
	Now    func() time.Time // defaults to time.Now
}

// Report is the result of grading one credit report
type Report struct {
	ID       string                `json:"id"`
	Source   string                `json:"source"`
	RuleSet  string                `json:"rule_set"`
	AsOf     time.Time             `json:"as_of"`
	Fields   fields.Mapping        `json:"fields"`
	Result   engine.GradeResult    `json:"result"`
	Analysis creditreport.Analysis `json:"analysis"`
}

func New(eng *engine.Engine, logger *zap.Logger) *Grader {
	return &Grader{Engine: eng, Logger: logging.Nop(logger)}
}

// GradeFile grades the PDF at path
func (g *Grader) GradeFile(ctx context.Context, path string, asOf time.Time) (*Report, error) {
	doc, err := creditreport.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return g.GradeDocument(ctx, path, doc, asOf)
}

// GradeBytes grades an uploaded PDF. name is only used for reporting.
func (g *Grader) GradeBytes(ctx context.Context, name string, data []byte, asOf time.Time) (*Report, error) {
	doc, err := creditreport.ExtractBytes(data)
	if err != nil {
		return nil, err
	}
	return g.GradeDocument(ctx, name, doc, asOf)
}

// GradeDocument grades already extracted text. A zero asOf means today.
func (g *Grader) GradeDocument(ctx context.Context, name string, doc creditreport.Document, asOf time.Time) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.Engine == nil {
		return nil, fmt.Errorf("grader has no rule engine")
	}
	if asOf.IsZero() {
		asOf = g.now()
	}
	log := logging.Nop(g.Logger)

	analysis := creditreport.Analyze(doc, asOf)
	m := analysis.Fields()
	log.Debug("report analyzed",
		zap.String("source", name),
		zap.Int("tradelines", len(analysis.Accounts)),
		zap.Int("positive", analysis.Positive),
		zap.Int("negative", analysis.Negative),
		zap.Bool("bankruptcy", analysis.HasBankruptcy))

	res, err := g.Engine.Evaluate(m)
	if err != nil {
		return nil, fmt.Errorf("grade %s: %w", name, err)
	}

	rep := &Report{
		ID:       uuid.NewString(),
		Source:   name,
		RuleSet:  g.Engine.Name(),
		AsOf:     asOf,
		Fields:   m,
		Result:   res,
		Analysis: analysis,
	}
	log.Info("report graded",
		zap.String("id", rep.ID),
		zap.String("source", name),
		zap.Int("grade", res.Grade),
		zap.Float64("score", res.Score))
	return rep, nil
}

func (g *Grader) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
