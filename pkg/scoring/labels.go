package scoring

// PerformanceLabel maps a performance category to its display label.
func PerformanceLabel(category int) string {
	switch category {
	case 1:
		return "Meets expectations"
	case 2:
		return "Exceeds expectations"
	default:
		return "Below expectations"
	}
}

// PotentialLabel maps a potential category to its display label.
// Category 0 covers both empty assessments and scores above the top band.
func PotentialLabel(category int) string {
	switch category {
	case 1:
		return "Low potential"
	case 2:
		return "Moderate potential"
	case 3:
		return "High potential"
	default:
		return "Unclassified"
	}
}
