package model

import (
	"errors"
	"fmt"

	"glycorisk/domain/prediction"
	apperrors "glycorisk/internal/errors"

	"gonum.org/v1/gonum/floats"
)

// DecisionTree walks a flattened binary tree; leaves carry per-class sample weights
type DecisionTree struct {
	names   []string
	classes []int
	nodes   []TreeNode
}

// TreeNode is one node of a flattened tree; children are indexes into the
// node slice and leaves carry per-class weights in Value.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

// NewDecisionTree checks every leaf has a usable class distribution
func NewDecisionTree(names []string, classes []int, nodes []TreeNode) (*DecisionTree, error) {
	if err := checkFeatureNames(names); err != nil {
		return nil, err
	}
	if err := checkClasses(classes); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, apperrors.InvalidInput("decision tree has no nodes")
	}
	for i, node := range nodes {
		if !node.IsLeaf {
			continue
		}
		if len(node.Value) != len(classes) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("leaf %d has %d class weights, want %d", i, len(node.Value), len(classes)))
		}
		if floats.Sum(node.Value) <= 0 || floats.Min(node.Value) < 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("leaf %d has invalid class weights %v", i, node.Value))
		}
	}
	return &DecisionTree{
		names:   append([]string(nil), names...),
		classes: append([]int(nil), classes...),
		nodes:   append([]TreeNode(nil), nodes...),
	}, nil
}

// PredictProba returns the normalised class weights of the reached leaf
func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	if len(features) != len(dt.names) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("model expects %d features, got %d", len(dt.names), len(features)))
	}
	idx := 0
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			probs := append([]float64(nil), node.Value...)
			floats.Scale(1/floats.Sum(probs), probs)
			return probs, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return nil, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return nil, errors.New("invalid tree state")
		}
	}
	return nil, errors.New("decision tree contains a cycle")
}

// Predict returns the most probable class
func (dt *DecisionTree) Predict(features []float64) (int, error) {
	probs, err := dt.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return dt.classes[prediction.ArgMax(probs)], nil
}

// Classes returns the class labels in probability order
func (dt *DecisionTree) Classes() []int {
	return append([]int(nil), dt.classes...)
}

// FeatureNames returns the training schema order
func (dt *DecisionTree) FeatureNames() []string {
	return append([]string(nil), dt.names...)
}
