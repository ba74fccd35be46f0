package prediction

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RiskClass is the classifier output
type RiskClass int

const (
	ClassNoDiabetes RiskClass = 0
	ClassType1      RiskClass = 1
	ClassType2      RiskClass = 2
)

// ClassCount is the number of classes the model predicts over
const ClassCount = 3

// SumTolerance bounds how far a probability distribution may drift from 1
const SumTolerance = 1e-6

// Classes lists every class in index order
var Classes = []RiskClass{ClassNoDiabetes, ClassType1, ClassType2}

// Label returns the display name of the class
func (c RiskClass) Label() string {
	switch c {
	case ClassNoDiabetes:
		return "No diabetes"
	case ClassType1:
		return "Type 1 diabetes"
	case ClassType2:
		return "Type 2 diabetes"
	}
	return fmt.Sprintf("class %d", int(c))
}

// Color returns the chart colour for the class
func (c RiskClass) Color() string {
	switch c {
	case ClassNoDiabetes:
		return "#228B22" // forestgreen
	case ClassType1:
		return "#FF8C00" // darkorange
	case ClassType2:
		return "#B22222" // firebrick
	}
	return "#808080"
}

// Valid reports whether c is one of the known classes
func (c RiskClass) Valid() bool {
	return c >= ClassNoDiabetes && c <= ClassType2
}

// Severity controls how a verdict is styled
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Verdict is the human-readable risk classification
type Verdict struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// VerdictFor maps a class to its verdict
func VerdictFor(c RiskClass) Verdict {
	switch c {
	case ClassNoDiabetes:
		return Verdict{Text: "The patient is NOT AT RISK of diabetes", Severity: SeveritySuccess}
	case ClassType1:
		return Verdict{Text: "The patient is at HIGH RISK of type 1 diabetes", Severity: SeverityWarning}
	default:
		return Verdict{Text: "The patient is at HIGH RISK of type 2 diabetes", Severity: SeverityError}
	}
}

// Result is the predicted class and the distribution over all classes
type Result struct {
	Class         RiskClass `json:"class"`
	Probabilities []float64 `json:"probabilities"`
}

// Verdict returns the verdict for the predicted class
func (r Result) Verdict() Verdict {
	return VerdictFor(r.Class)
}

// Probability returns the probability assigned to c
func (r Result) Probability(c RiskClass) float64 {
	if int(c) < 0 || int(c) >= len(r.Probabilities) {
		return 0
	}
	return r.Probabilities[c]
}

// Validate checks the distribution covers every class, is non-negative and
// sums to 1 within SumTolerance.
func (r Result) Validate() error {
	if !r.Class.Valid() {
		return fmt.Errorf("unknown class %d", int(r.Class))
	}
	if len(r.Probabilities) != ClassCount {
		return fmt.Errorf("expected %d probabilities, got %d", ClassCount, len(r.Probabilities))
	}
	for i, p := range r.Probabilities {
		if math.IsNaN(p) || p < 0 {
			return fmt.Errorf("probability %d is %v", i, p)
		}
	}
	if sum := floats.Sum(r.Probabilities); math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("probabilities sum to %v", sum)
	}
	return nil
}

// ArgMax returns the index of the largest probability, lowest index on ties
func ArgMax(probs []float64) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best
}
