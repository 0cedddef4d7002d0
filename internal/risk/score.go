package risk

import (
	"fmt"
	"math"
	"strings"
)

// Input is a cardiovascular risk scoring request. Lipid fields are mg/dL,
// matching the extraction pipeline's canonical units.
type Input struct {
	Age              int     `json:"age"`
	Sex              string  `json:"sex"`
	TotalCholesterol float64 `json:"total_cholesterol"`
	HDL              float64 `json:"hdl"`
	SystolicBP       float64 `json:"systolic_bp"`
	Smoker           bool    `json:"smoker"`
}

// Result carries the score and its banding.
type Result struct {
	RiskScore float64 `json:"risk_score"`
	RiskLevel string  `json:"risk_level"` // low, moderate, high
}

// Banding thresholds on the clamped score.
const (
	moderateThreshold = 0.10
	highThreshold     = 0.20
)

// genderForms folds the spellings seen in intake forms onto canonical
// values before the male adjustment is applied.
var genderForms = map[string]string{
	"m":      "male",
	"male":   "male",
	"man":    "male",
	"1":      "male",
	"f":      "female",
	"female": "female",
	"woman":  "female",
	"0":      "female",
}

// Validate checks the request for values the scorer can work with.
func (in Input) Validate() error {
	if in.Age <= 0 || in.Age > 120 {
		return fmt.Errorf("age must be between 1 and 120, got %d", in.Age)
	}
	if in.TotalCholesterol <= 0 {
		return fmt.Errorf("total_cholesterol must be positive, got %g", in.TotalCholesterol)
	}
	if in.HDL < 0 {
		return fmt.Errorf("hdl cannot be negative, got %g", in.HDL)
	}
	if in.SystolicBP <= 0 {
		return fmt.Errorf("systolic_bp must be positive, got %g", in.SystolicBP)
	}
	return nil
}

// Score computes a deterministic baseline cardiovascular risk estimate.
// The weights are a clinical heuristic standing in until a trained model
// replaces them; results are stable for identical inputs.
func Score(in Input) Result {
	base := 0.05
	base += (in.TotalCholesterol - 180.0) * 0.0008
	base += (in.SystolicBP - 120.0) * 0.001
	base -= (in.HDL - 50.0) * 0.002
	if in.Smoker {
		base += 0.06
	}
	if NormalizeSex(in.Sex) == "male" {
		base += 0.02
	}
	if in.Age > 50 {
		base += 0.03
	}

	score := math.Max(0.0, math.Min(1.0, base))
	level := "low"
	switch {
	case score >= highThreshold:
		level = "high"
	case score >= moderateThreshold:
		level = "moderate"
	}

	return Result{RiskScore: round3(score), RiskLevel: level}
}

// NormalizeSex folds a free-form sex value onto "male"/"female" where a
// known spelling matches, and passes unknown values through lowercased.
func NormalizeSex(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	if canonical, ok := genderForms[key]; ok {
		return canonical
	}
	return key
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
