package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"glycorisk/domain/patient"
	"glycorisk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, payload interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func zeros(n int) []float64 { return make([]float64, n) }

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// hba1cModel scores type 2 up and "no diabetes" down as scaled HbA1c grows
func hba1cModel(t *testing.T) *LogisticRegression {
	t.Helper()
	coef := [][]float64{zeros(patient.FeatureCount), zeros(patient.FeatureCount), zeros(patient.FeatureCount)}
	coef[0][4] = -2
	coef[2][4] = 2
	m, err := NewLogisticRegression(patient.SchemaKeys(), []int{0, 1, 2}, coef, []float64{0, -1, 0})
	require.NoError(t, err)
	return m
}

func TestStandardScalerTransform(t *testing.T) {
	mean := zeros(patient.FeatureCount)
	scale := ones(patient.FeatureCount)
	mean[1], scale[1] = 50, 10
	scale[2] = 0

	s, err := NewStandardScaler(patient.SchemaKeys(), mean, scale)
	require.NoError(t, err)

	in := zeros(patient.FeatureCount)
	in[1], in[2] = 70, 3
	out, err := s.Transform(in)
	require.NoError(t, err)

	assert.Equal(t, 2.0, out[1])
	assert.Equal(t, 3.0, out[2], "zero scale leaves the value unscaled")
	assert.Equal(t, 70.0, in[1], "input is not mutated")

	_, err = s.Transform([]float64{1, 2})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLogisticRegressionProbabilities(t *testing.T) {
	m := hba1cModel(t)

	low := zeros(patient.FeatureCount)
	low[4] = -2
	high := zeros(patient.FeatureCount)
	high[4] = 2

	for _, x := range [][]float64{low, high, zeros(patient.FeatureCount)} {
		probs, err := m.PredictProba(x)
		require.NoError(t, err)
		require.Len(t, probs, 3)
		sum := probs[0] + probs[1] + probs[2]
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	class, err := m.Predict(low)
	require.NoError(t, err)
	assert.Equal(t, 0, class)

	class, err = m.Predict(high)
	require.NoError(t, err)
	assert.Equal(t, 2, class)
}

func TestSoftmaxStableForLargeScores(t *testing.T) {
	probs := softmax([]float64{1000, 0, -1000})

	assert.False(t, math.IsNaN(probs[0]))
	assert.InDelta(t, 1.0, probs[0], 1e-12)
}

func TestDecisionTree(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 4, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: []float64{8, 1, 1}},
		{IsLeaf: true, Value: []float64{0, 1, 3}},
	}
	dt, err := NewDecisionTree(patient.SchemaKeys(), []int{0, 1, 2}, nodes)
	require.NoError(t, err)

	x := zeros(patient.FeatureCount)
	probs, err := dt.PredictProba(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.8, 0.1, 0.1}, probs, 1e-12)

	x[4] = 1
	class, err := dt.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, 2, class)
}

func TestDecisionTreeRejectsBadLeaves(t *testing.T) {
	_, err := NewDecisionTree(patient.SchemaKeys(), []int{0, 1, 2}, []TreeNode{{IsLeaf: true, Value: []float64{0, 0, 0}}})
	assert.Error(t, err)

	_, err = NewDecisionTree(patient.SchemaKeys(), []int{0, 1, 2}, nil)
	assert.Error(t, err)
}

func TestDecisionTreeDetectsCycle(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 0, Threshold: 10, LeftChild: 1, RightChild: 1},
		{FeatureIdx: 0, Threshold: 10, LeftChild: 0, RightChild: 0},
		{IsLeaf: true, Value: []float64{1, 0, 0}},
	}
	dt, err := NewDecisionTree(patient.SchemaKeys(), []int{0, 1, 2}, nodes)
	require.NoError(t, err)

	_, err = dt.PredictProba(zeros(patient.FeatureCount))
	assert.Error(t, err)
}

func TestLoadClassifierAndScaler(t *testing.T) {
	names := patient.SchemaKeys()
	coef := [][]float64{zeros(len(names)), zeros(len(names)), zeros(len(names))}

	modelPath := writeArtifact(t, map[string]interface{}{
		"type":          TypeLogisticRegression,
		"feature_names": names,
		"classes":       []int{0, 1, 2},
		"coef":          coef,
		"intercept":     []float64{0, 0, 0},
	})
	scalerPath := writeArtifact(t, map[string]interface{}{
		"type":          TypeStandardScaler,
		"feature_names": names,
		"mean":          zeros(len(names)),
		"scale":         ones(len(names)),
	})

	classifier, err := LoadClassifier(modelPath)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, classifier.Classes())

	probs, err := classifier.PredictProba(zeros(len(names)))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, probs, 1e-12)

	scaler, err := LoadScaler(scalerPath)
	require.NoError(t, err)
	assert.Equal(t, names, scaler.FeatureNames())
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	names := patient.SchemaKeys()
	names[3], names[4] = names[4], names[3]

	path := writeArtifact(t, map[string]interface{}{
		"type":          TypeStandardScaler,
		"feature_names": names,
		"mean":          zeros(len(names)),
		"scale":         ones(len(names)),
	})

	_, err := LoadScaler(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	_, err := LoadClassifier(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, errors.CodeArtifactInvalid, errors.GetCode(err))

	garbage := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("\x80\x04pickle"), 0o600))
	_, err = LoadScaler(garbage)
	assert.Equal(t, errors.CodeArtifactInvalid, errors.GetCode(err))

	unknown := writeArtifact(t, map[string]interface{}{
		"type":          "random_forest",
		"feature_names": patient.SchemaKeys(),
	})
	_, err = LoadClassifier(unknown)
	assert.Equal(t, errors.CodeArtifactInvalid, errors.GetCode(err))
}
