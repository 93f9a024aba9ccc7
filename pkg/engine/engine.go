package engine

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/google/cel-go/cel"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
)

// Engine grades field mappings against a compiled rule set.
// It holds no mutable state and may be shared between goroutines.
type Engine struct {
	name     string
	schema   fields.Schema
	rules    []*rule
	bands    []Band // highest Min first
	fallback int
	required []fields.Spec
}

type rule struct {
	spec    RuleSpec
	refs    []fields.Spec
	per     *fields.Spec
	program cel.Program
	message *template.Template
}

func (r *rule) isGrade() bool { return r.spec.Grade != 0 }

// New compiles a decoded rule set document
func New(doc Document) (*Engine, error) {
	schema, err := fields.NewSchema(doc.Fields)
	if err != nil {
		return nil, err
	}
	if _, ok := schema.Lookup(ScoreVar); ok {
		return nil, fmt.Errorf("field name %q is reserved", ScoreVar)
	}

	bands, err := sortBands(doc.Bands)
	if err != nil {
		return nil, err
	}
	fallback := doc.FallbackGrade
	if fallback == 0 {
		fallback = 5
	}
	if fallback < 1 || fallback > 5 {
		return nil, fmt.Errorf("fallback grade %d out of range 1-5", fallback)
	}

	e := &Engine{
		name:     doc.Name,
		schema:   schema,
		bands:    bands,
		fallback: fallback,
	}

	seen := make(map[string]bool, len(doc.Rules))
	used := make(map[string]bool)
	for _, spec := range doc.Rules {
		if seen[spec.Name] {
			return nil, fmt.Errorf("rule %q declared twice", spec.Name)
		}
		seen[spec.Name] = true

		r, err := compileRule(schema, spec)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", spec.Name, err)
		}
		for _, ref := range r.refs {
			used[ref.Name] = true
		}
		e.rules = append(e.rules, r)
	}

	for _, sp := range schema.Specs() {
		if used[sp.Name] {
			e.required = append(e.required, sp)
		}
	}
	return e, nil
}

func sortBands(in []Band) ([]Band, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("rule set has no grade bands")
	}
	bands := make([]Band, len(in))
	copy(bands, in)
	mins := make(map[float64]bool, len(bands))
	for _, b := range bands {
		if b.Grade < 1 || b.Grade > 5 {
			return nil, fmt.Errorf("band grade %d out of range 1-5", b.Grade)
		}
		if mins[b.Min] {
			return nil, fmt.Errorf("two bands start at %g", b.Min)
		}
		mins[b.Min] = true
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min > bands[j].Min })
	return bands, nil
}

func compileRule(schema fields.Schema, spec RuleSpec) (*rule, error) {
	r := &rule{spec: spec}
	if spec.Grade != 0 && (spec.Points != nil || spec.Per != "") {
		return nil, fmt.Errorf("a rule sets either points or grade, not both")
	}
	if spec.Grade == 0 && spec.Points == nil {
		return nil, fmt.Errorf("a rule needs points or a grade")
	}
	if spec.Grade < 0 || spec.Grade > 5 {
		return nil, fmt.Errorf("grade %d out of range 1-5", spec.Grade)
	}

	per := strings.TrimSpace(spec.Per)
	names := append([]string(nil), spec.Fields...)
	if per != "" {
		names = append(names, per)
	}
	opts := []cel.EnvOption{cel.CrossTypeNumericComparisons(true)}
	declared := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if declared[name] {
			continue
		}
		sp, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		declared[name] = true
		r.refs = append(r.refs, sp)
		opts = append(opts, cel.Variable(sp.Name, celType(sp.Kind)))
	}
	if per != "" {
		sp, _ := schema.Lookup(per)
		if sp.Kind != fields.Number {
			return nil, fmt.Errorf("per field %q must be a number", per)
		}
		r.per = &sp
	}
	if r.isGrade() {
		opts = append(opts, cel.Variable(ScoreVar, cel.DoubleType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(spec.When)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("when: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("when: expression yields %s, want bool", ast.OutputType())
	}
	prg, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	r.program = prg

	if spec.Message != "" {
		tmpl, err := parseMessage(spec.Name, spec.Message)
		if err != nil {
			return nil, err
		}
		r.message = tmpl
	}
	return r, nil
}

func celType(k fields.Kind) *cel.Type {
	switch k {
	case fields.Bool:
		return cel.BoolType
	case fields.Text:
		return cel.StringType
	default:
		return cel.DoubleType
	}
}

// Evaluate grades one field mapping. Every field the rules reference is read and
// type checked before any rule runs; the first absent or malformed field aborts the
// call with a *fields.MissingFieldError or *fields.InvalidFieldError.
func (e *Engine) Evaluate(m fields.Mapping) (GradeResult, error) {
	values := make(map[string]any, len(e.required)+1)
	for _, sp := range e.required {
		v, err := m.Get(sp)
		if err != nil {
			return GradeResult{}, err
		}
		values[sp.Name] = v
	}

	res := GradeResult{Breakdown: make([]Outcome, len(e.rules))}
	for i, r := range e.rules {
		if r.isGrade() {
			continue
		}
		matched, err := r.match(values)
		if err != nil {
			return GradeResult{}, err
		}
		var contribution float64
		if matched {
			contribution = *r.spec.Points
			if r.per != nil {
				contribution *= values[r.per.Name].(float64)
			}
		}
		res.Score += contribution
		res.Breakdown[i] = r.outcome(matched, contribution, values)
	}

	res.BandGrade = e.GradeFor(res.Score)
	res.Grade = res.BandGrade
	values[ScoreVar] = res.Score
	for i, r := range e.rules {
		if !r.isGrade() {
			continue
		}
		matched, err := r.match(values)
		if err != nil {
			return GradeResult{}, err
		}
		if matched {
			res.Grade = r.spec.Grade
		}
		res.Breakdown[i] = r.outcome(matched, 0, values)
	}
	return res, nil
}

// GradeFor maps a score to a grade using the bands alone
func (e *Engine) GradeFor(score float64) int {
	for _, b := range e.bands {
		if score >= b.Min {
			return b.Grade
		}
	}
	return e.fallback
}

func (r *rule) match(values map[string]any) (bool, error) {
	out, _, err := r.program.Eval(values)
	if err != nil {
		return false, fmt.Errorf("rule %q: eval: %w", r.spec.Name, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q: result not bool", r.spec.Name)
	}
	return matched, nil
}

func (r *rule) outcome(matched bool, contribution float64, values map[string]any) Outcome {
	o := Outcome{
		Rule:         r.spec.Name,
		Matched:      matched,
		Contribution: contribution,
	}
	if r.isGrade() {
		o.Grade = r.spec.Grade
	}
	if r.message != nil {
		o.Message = renderMessage(r.message, values, matched, contribution)
	}
	return o
}

// Name is the rule set name
func (e *Engine) Name() string { return e.name }

// Fields returns the declared field schema
func (e *Engine) Fields() []fields.Spec { return e.schema.Specs() }

// RequiredFields returns the fields at least one rule reads
func (e *Engine) RequiredFields() []fields.Spec {
	out := make([]fields.Spec, len(e.required))
	copy(out, e.required)
	return out
}

// Rules returns the rule specs in evaluation order
func (e *Engine) Rules() []RuleSpec {
	out := make([]RuleSpec, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.spec
	}
	return out
}

// Bands returns the grade bands, highest minimum first
func (e *Engine) Bands() []Band {
	out := make([]Band, len(e.bands))
	copy(out, e.bands)
	return out
}

// FallbackGrade is the grade for scores below every band
func (e *Engine) FallbackGrade() int { return e.fallback }
