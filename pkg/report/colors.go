package report

var gradeColors = map[int]string{
	1: "#4CAF50",
	2: "#8BC34A",
	3: "#FFC107",
	4: "#FF9800",
	5: "#F44336",
}

const neutralColor = "#607D8B"

// GradeColor is the display colour for a 1-5 grade
func GradeColor(grade int) string {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return neutralColor
}

// ScoreColor colours a raw score with the same thresholds as the default bands
func ScoreColor(score float64) string {
	switch {
	case score < 0:
		return gradeColors[5]
	case score == 0:
		return gradeColors[4]
	case score < 3:
		return gradeColors[3]
	case score < 5:
		return gradeColors[2]
	default:
		return gradeColors[1]
	}
}

// GradeLabel is a short human description of a grade
func GradeLabel(grade int) string {
	switch grade {
	case 1:
		return "Excellent"
	case 2:
		return "Good"
	case 3:
		return "Fair"
	case 4:
		return "Poor"
	case 5:
		return "Very poor"
	}
	return "Unknown"
}
