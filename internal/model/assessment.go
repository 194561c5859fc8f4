package model

// AssessmentLabel is the fixed enumeration produced by the daily-series
// classifier.
type AssessmentLabel string

const (
	LabelTrendingUp     AssessmentLabel = "Trending Up"
	LabelTrendingDown   AssessmentLabel = "Trending Down"
	LabelRanging        AssessmentLabel = "Ranging"
	LabelChangeImminent AssessmentLabel = "Direction Change Imminent"
	LabelUnavailable    AssessmentLabel = "Analysis Unavailable"
	LabelAnalysisError  AssessmentLabel = "Analysis Error"
)

// ValidAssessmentLabel reports whether the label is one the classifier is
// allowed to produce (sentinels excluded).
func ValidAssessmentLabel(l AssessmentLabel) bool {
	switch l {
	case LabelTrendingUp, LabelTrendingDown, LabelRanging, LabelChangeImminent:
		return true
	}
	return false
}

// Assessment is the qualitative daily-series classification.
type Assessment struct {
	Label     AssessmentLabel `json:"label"`
	Rationale string          `json:"rationale,omitempty"`
}
