package app

import (
	"context"
	"testing"

	"glycorisk/adapters/model"
	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScaler struct {
	mock.Mock
}

func (m *MockScaler) Transform(features []float64) ([]float64, error) {
	args := m.Called(features)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockScaler) FeatureNames() []string {
	return patient.SchemaKeys()
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(features []float64) (int, error) {
	args := m.Called(features)
	return args.Int(0), args.Error(1)
}

func (m *MockClassifier) PredictProba(features []float64) ([]float64, error) {
	args := m.Called(features)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockClassifier) Classes() []int {
	return []int{0, 1, 2}
}

func (m *MockClassifier) FeatureNames() []string {
	return patient.SchemaKeys()
}

func realService(t *testing.T, cacheSize int) *PredictionService {
	t.Helper()
	names := patient.SchemaKeys()
	mean := make([]float64, len(names))
	scale := make([]float64, len(names))
	for i, f := range patient.Schema {
		mean[i] = (f.Min + f.Max) / 2
		scale[i] = (f.Max - f.Min) / 4
	}
	scaler, err := model.NewStandardScaler(names, mean, scale)
	require.NoError(t, err)

	coef := make([][]float64, 3)
	for i := range coef {
		coef[i] = make([]float64, len(names))
	}
	coef[0][4], coef[0][9] = -1.5, -0.8
	coef[2][4], coef[2][9] = 1.5, 0.8
	classifier, err := model.NewLogisticRegression(names, []int{0, 1, 2}, coef, []float64{0.5, -1, 0})
	require.NoError(t, err)

	svc, err := NewPredictionService(scaler, classifier, cacheSize, nil)
	require.NoError(t, err)
	return svc
}

func TestPredictIsDeterministic(t *testing.T) {
	for _, cacheSize := range []int{0, 8} {
		svc := realService(t, cacheSize)
		fv := patient.DefaultVector()

		first, err := svc.Predict(context.Background(), fv)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := svc.Predict(context.Background(), fv)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	svc := realService(t, 0)
	vectors := []patient.FeatureVector{patient.DefaultVector()}

	high := patient.DefaultVector()
	high.HbA1c, high.BMI, high.Gender = 14.0, 42.0, patient.GenderMale
	vectors = append(vectors, high)

	for _, fv := range vectors {
		result, err := svc.Predict(context.Background(), fv)
		require.NoError(t, err)
		sum := 0.0
		for _, p := range result.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, prediction.SumTolerance)
	}

	result, err := svc.Predict(context.Background(), high)
	require.NoError(t, err)
	assert.Equal(t, prediction.ClassType2, result.Class)
}

func TestPredictUsesCache(t *testing.T) {
	scaler := new(MockScaler)
	classifier := new(MockClassifier)
	scaled := make([]float64, patient.FeatureCount)
	scaler.On("Transform", mock.Anything).Return(scaled, nil).Once()
	classifier.On("PredictProba", scaled).Return([]float64{0.1, 0.2, 0.7}, nil).Once()

	svc, err := NewPredictionService(scaler, classifier, 4, nil)
	require.NoError(t, err)

	fv := patient.DefaultVector()
	first, err := svc.Predict(context.Background(), fv)
	require.NoError(t, err)
	first.Probabilities[0] = 99

	second, err := svc.Predict(context.Background(), fv)
	require.NoError(t, err)

	assert.Equal(t, prediction.ClassType2, second.Class)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, second.Probabilities, "cached copy is not shared")
	scaler.AssertExpectations(t)
	classifier.AssertExpectations(t)
}

func TestPredictRejectsInvalidDistribution(t *testing.T) {
	scaler := new(MockScaler)
	classifier := new(MockClassifier)
	scaler.On("Transform", mock.Anything).Return(make([]float64, patient.FeatureCount), nil)
	classifier.On("PredictProba", mock.Anything).Return([]float64{0.5, 0.6, 0.2}, nil)

	svc, err := NewPredictionService(scaler, classifier, 0, nil)
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), patient.DefaultVector())
	require.Error(t, err)
	assert.Equal(t, errors.CodePredictionFailed, errors.GetCode(err))
}

func TestPredictHonoursCancelledContext(t *testing.T) {
	svc := realService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, patient.DefaultVector())
	assert.ErrorIs(t, err, context.Canceled)
}

type renamedScaler struct {
	MockScaler
}

func (r *renamedScaler) FeatureNames() []string {
	names := patient.SchemaKeys()
	names[0] = "sex"
	return names
}

func TestNewPredictionServiceRejectsSchemaMismatch(t *testing.T) {
	_, err := NewPredictionService(&renamedScaler{}, new(MockClassifier), 0, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))

	_, err = NewPredictionService(nil, new(MockClassifier), 0, nil)
	assert.Error(t, err)
}
