package model

import (
	"fmt"
	"math"

	"glycorisk/domain/prediction"
	"glycorisk/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a multinomial (softmax) linear classifier
type LogisticRegression struct {
	names     []string
	classes   []int
	coef      *mat.Dense
	intercept *mat.VecDense
}

// NewLogisticRegression builds a model from one coefficient row per class
func NewLogisticRegression(names []string, classes []int, coef [][]float64, intercept []float64) (*LogisticRegression, error) {
	if err := checkFeatureNames(names); err != nil {
		return nil, err
	}
	if err := checkClasses(classes); err != nil {
		return nil, err
	}
	if len(coef) != len(classes) || len(intercept) != len(classes) {
		return nil, errors.InvalidInput(fmt.Sprintf("need %d coefficient rows and intercepts, got %d and %d", len(classes), len(coef), len(intercept)))
	}
	data := make([]float64, 0, len(classes)*len(names))
	for i, row := range coef {
		if len(row) != len(names) {
			return nil, errors.InvalidInput(fmt.Sprintf("coefficient row %d has %d values, want %d", i, len(row), len(names)))
		}
		data = append(data, row...)
	}
	return &LogisticRegression{
		names:     append([]string(nil), names...),
		classes:   append([]int(nil), classes...),
		coef:      mat.NewDense(len(classes), len(names), data),
		intercept: mat.NewVecDense(len(intercept), append([]float64(nil), intercept...)),
	}, nil
}

// PredictProba returns softmax(coef·x + intercept)
func (m *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	_, cols := m.coef.Dims()
	if len(features) != cols {
		return nil, errors.InvalidInput(fmt.Sprintf("model expects %d features, got %d", cols, len(features)))
	}
	x := mat.NewVecDense(len(features), append([]float64(nil), features...))
	var z mat.VecDense
	z.MulVec(m.coef, x)
	z.AddVec(&z, m.intercept)
	return softmax(z.RawVector().Data), nil
}

// Predict returns the most probable class
func (m *LogisticRegression) Predict(features []float64) (int, error) {
	probs, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return m.classes[prediction.ArgMax(probs)], nil
}

// Classes returns the class labels in probability order
func (m *LogisticRegression) Classes() []int {
	return append([]int(nil), m.classes...)
}

// FeatureNames returns the training schema order
func (m *LogisticRegression) FeatureNames() []string {
	return append([]string(nil), m.names...)
}

func softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	peak := floats.Max(scores)
	for i, s := range scores {
		out[i] = math.Exp(s - peak)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}
