package model

import (
	"fmt"

	"glycorisk/internal/errors"
)

// StandardScaler applies (x - mean) / scale per feature
type StandardScaler struct {
	names []string
	mean  []float64
	scale []float64
}

// NewStandardScaler validates the parameters. A zero scale is treated as 1,
// matching constant features in training.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	if err := checkFeatureNames(names); err != nil {
		return nil, err
	}
	if len(mean) != len(names) || len(scale) != len(names) {
		return nil, errors.InvalidInput(fmt.Sprintf("scaler needs %d means and scales, got %d and %d", len(names), len(mean), len(scale)))
	}
	s := &StandardScaler{
		names: append([]string(nil), names...),
		mean:  append([]float64(nil), mean...),
		scale: make([]float64, len(scale)),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// Transform scales a single encoded vector
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.mean) {
		return nil, errors.InvalidInput(fmt.Sprintf("scaler expects %d features, got %d", len(s.mean), len(features)))
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = (x - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// FeatureNames returns the training schema order
func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.names...)
}

// LoadScaler reads a standard_scaler artifact
func LoadScaler(path string) (*StandardScaler, error) {
	file, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if file.Type != TypeStandardScaler {
		return nil, errors.ArtifactInvalid(path, fmt.Errorf("unsupported scaler type %q", file.Type))
	}
	scaler, err := NewStandardScaler(file.FeatureNames, file.Mean, file.Scale)
	if err != nil {
		return nil, errors.Wrapf(err, "artifact %s", path)
	}
	return scaler, nil
}
