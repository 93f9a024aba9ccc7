package engine

// GradeResult is the outcome of grading one field mapping
type GradeResult struct {
	Grade     int       `json:"grade"`      // final grade 1-5
	BandGrade int       `json:"band_grade"` // grade from the score bands, before grade rules
	Score     float64   `json:"score"`
	Breakdown []Outcome `json:"breakdown"` // one entry per rule, in rule set order
}

// Outcome records how a single rule applied
type Outcome struct {
	Rule         string  `json:"rule"`
	Matched      bool    `json:"matched"`
	Contribution float64 `json:"contribution"`
	Grade        int     `json:"grade,omitempty"` // set for grade rules
	Message      string  `json:"message,omitempty"`
}

// Matched returns the outcomes of the rules that fired
func (r GradeResult) Matched() []Outcome {
	var out []Outcome
	for _, o := range r.Breakdown {
		if o.Matched {
			out = append(out, o)
		}
	}
	return out
}
