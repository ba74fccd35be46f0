package model

import (
	"fmt"

	"glycorisk/internal/errors"
	"glycorisk/ports"
)

// LoadClassifier reads a classifier artifact and dispatches on its type
func LoadClassifier(path string) (ports.Classifier, error) {
	file, err := readArtifact(path)
	if err != nil {
		return nil, err
	}

	var classifier ports.Classifier
	switch file.Type {
	case TypeLogisticRegression:
		classifier, err = NewLogisticRegression(file.FeatureNames, file.Classes, file.Coef, file.Intercept)
	case TypeDecisionTree:
		classifier, err = NewDecisionTree(file.FeatureNames, file.Classes, file.Nodes)
	default:
		return nil, errors.ArtifactInvalid(path, fmt.Errorf("unsupported model type %q", file.Type))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "artifact %s", path)
	}
	return classifier, nil
}
