package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		class    RiskClass
		severity Severity
		contains string
	}{
		{ClassNoDiabetes, SeveritySuccess, "NOT AT RISK"},
		{ClassType1, SeverityWarning, "type 1"},
		{ClassType2, SeverityError, "type 2"},
	}

	for _, tt := range tests {
		v := VerdictFor(tt.class)
		assert.Equal(t, tt.severity, v.Severity)
		assert.Contains(t, v.Text, tt.contains)
	}
}

func TestResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantErr bool
	}{
		{"valid", Result{Class: ClassType2, Probabilities: []float64{0.1, 0.2, 0.7}}, false},
		{"within tolerance", Result{Class: ClassNoDiabetes, Probabilities: []float64{0.5, 0.25, 0.2500000001}}, false},
		{"does not sum to one", Result{Class: ClassNoDiabetes, Probabilities: []float64{0.5, 0.4, 0.4}}, true},
		{"negative", Result{Class: ClassNoDiabetes, Probabilities: []float64{1.2, -0.1, -0.1}}, true},
		{"wrong length", Result{Class: ClassNoDiabetes, Probabilities: []float64{1}}, true},
		{"unknown class", Result{Class: 7, Probabilities: []float64{0.2, 0.3, 0.5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.2, 0.7}))
	assert.Equal(t, 0, ArgMax([]float64{0.4, 0.4, 0.2}), "lowest index wins ties")
	assert.Equal(t, 0, ArgMax(nil))
}

func TestResultProbability(t *testing.T) {
	r := Result{Class: ClassType1, Probabilities: []float64{0.2, 0.5, 0.3}}

	assert.Equal(t, 0.5, r.Probability(ClassType1))
	assert.Equal(t, 0.0, r.Probability(RiskClass(5)))
	assert.Equal(t, SeverityWarning, r.Verdict().Severity)
}
