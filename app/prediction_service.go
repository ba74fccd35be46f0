package app

import (
	"context"
	"fmt"

	"glycorisk/domain/core"
	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal"
	"glycorisk/internal/errors"
	"glycorisk/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PredictionService scales a feature vector and runs the classifier on it
type PredictionService struct {
	scaler     ports.Scaler
	classifier ports.Classifier
	cache      *lru.Cache[core.Hash, prediction.Result]
	logger     *internal.Logger
}

// NewPredictionService wires the artifacts together. cacheSize 0 disables memoisation.
func NewPredictionService(scaler ports.Scaler, classifier ports.Classifier, cacheSize int, logger *internal.Logger) (*PredictionService, error) {
	if scaler == nil || classifier == nil {
		return nil, errors.InternalError("prediction service needs a scaler and a classifier")
	}
	if err := sameSchema(scaler.FeatureNames(), classifier.FeatureNames()); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &PredictionService{
		scaler:     scaler,
		classifier: classifier,
		logger:     logger,
	}
	if cacheSize > 0 {
		cache, err := lru.New[core.Hash, prediction.Result](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create prediction cache")
		}
		s.cache = cache
	}
	return s, nil
}

// Predict returns the class and probability distribution for fv. The same
// vector always yields the same result.
func (s *PredictionService) Predict(ctx context.Context, fv patient.FeatureVector) (prediction.Result, error) {
	if err := ctx.Err(); err != nil {
		return prediction.Result{}, err
	}

	values := fv.Values()
	key := core.HashFloats(values)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Trace("prediction cache hit %s", key.String()[:12])
			return copyResult(cached), nil
		}
	}

	scaled, err := s.scaler.Transform(values)
	if err != nil {
		return prediction.Result{}, errors.PredictionFailed(err)
	}
	probs, err := s.classifier.PredictProba(scaled)
	if err != nil {
		return prediction.Result{}, errors.PredictionFailed(err)
	}

	classes := s.classifier.Classes()
	idx := prediction.ArgMax(probs)
	if idx >= len(classes) {
		return prediction.Result{}, errors.PredictionFailed(fmt.Errorf("classifier returned %d probabilities for %d classes", len(probs), len(classes)))
	}
	result := prediction.Result{
		Class:         prediction.RiskClass(classes[idx]),
		Probabilities: probs,
	}
	if err := result.Validate(); err != nil {
		return prediction.Result{}, errors.PredictionFailed(err)
	}

	s.logger.Debug("predicted class %d with p=%.4f", int(result.Class), probs[idx])
	if s.cache != nil {
		s.cache.Add(key, copyResult(result))
	}
	return result, nil
}

func copyResult(r prediction.Result) prediction.Result {
	return prediction.Result{
		Class:         r.Class,
		Probabilities: append([]float64(nil), r.Probabilities...),
	}
}

func sameSchema(scalerNames, modelNames []string) error {
	if len(scalerNames) != len(modelNames) {
		return errors.SchemaMismatch(fmt.Sprintf("scaler has %d features, model has %d", len(scalerNames), len(modelNames)))
	}
	for i := range scalerNames {
		if scalerNames[i] != modelNames[i] {
			return errors.SchemaMismatch(fmt.Sprintf("feature %d is %q in the scaler but %q in the model", i, scalerNames[i], modelNames[i]))
		}
	}
	return nil
}
