package model

import (
	"encoding/json"
	"fmt"
	"os"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal/errors"
)

// Artifact types understood by the loaders
const (
	TypeStandardScaler     = "standard_scaler"
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
)

// artifactFile is the JSON envelope a training pipeline exports. Only the
// fields relevant to Type are populated.
type artifactFile struct {
	Type         string      `json:"type"`
	FeatureNames []string    `json:"feature_names"`
	Classes      []int       `json:"classes,omitempty"`
	Mean         []float64   `json:"mean,omitempty"`
	Scale        []float64   `json:"scale,omitempty"`
	Coef         [][]float64 `json:"coef,omitempty"`
	Intercept    []float64   `json:"intercept,omitempty"`
	Nodes        []TreeNode  `json:"nodes,omitempty"`
}

func readArtifact(path string) (*artifactFile, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactInvalid(path, err)
	}
	var file artifactFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, errors.ArtifactInvalid(path, err)
	}
	if err := checkFeatureNames(file.FeatureNames); err != nil {
		return nil, errors.Wrapf(err, "artifact %s", path)
	}
	return &file, nil
}

// checkFeatureNames enforces that the artifact was trained on the patient schema order
func checkFeatureNames(names []string) error {
	want := patient.SchemaKeys()
	if len(names) != len(want) {
		return errors.SchemaMismatch(fmt.Sprintf("expected %d feature names, got %d", len(want), len(names)))
	}
	for i := range want {
		if names[i] != want[i] {
			return errors.SchemaMismatch(fmt.Sprintf("feature %d is %q, want %q", i, names[i], want[i]))
		}
	}
	return nil
}

func checkClasses(classes []int) error {
	if len(classes) != prediction.ClassCount {
		return errors.SchemaMismatch(fmt.Sprintf("expected %d classes, got %d", prediction.ClassCount, len(classes)))
	}
	for i, c := range classes {
		if c != int(prediction.Classes[i]) {
			return errors.SchemaMismatch(fmt.Sprintf("class %d is %d, want %d", i, c, int(prediction.Classes[i])))
		}
	}
	return nil
}
