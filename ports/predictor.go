package ports

import (
	"context"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
)

// Scaler normalises an encoded feature vector before inference
type Scaler interface {
	Transform(features []float64) ([]float64, error)
	FeatureNames() []string
}

// Classifier scores a scaled feature vector
type Classifier interface {
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
	Classes() []int
	FeatureNames() []string
}

// Predictor turns patient data into a prediction
type Predictor interface {
	Predict(ctx context.Context, fv patient.FeatureVector) (prediction.Result, error)
}
