package artifact

import (
	"fmt"
	"math"
)

const decisionCutoff = 0.5

// StandardScaler applies (x - mean) / scale per column
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// Transform returns a scaled copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.mean[i]) / scale
	}
	return out, nil
}

// LogisticRegression is a fitted binary logistic model
type LogisticRegression struct {
	coefficients []float64
	intercept    float64
}

func (m *LogisticRegression) PredictProbability(x []float64) (float64, error) {
	if len(x) != len(m.coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.coefficients), len(x))
	}
	z := m.intercept
	for i, v := range x {
		z += m.coefficients[i] * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (m *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := m.PredictProbability(x)
	if err != nil {
		return 0, err
	}
	return label(p), nil
}

// treeNode is a split when Left >= 0, otherwise a leaf carrying class weights
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n treeNode) isLeaf() bool { return n.Left < 0 }

type decisionTree struct {
	Nodes []treeNode `json:"nodes"`
}

// positive walks the tree from the root; x[feature] <= threshold goes left.
func (t decisionTree) positive(x []float64) float64 {
	i := 0
	for !t.Nodes[i].isLeaf() {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return leafProbability(t.Nodes[i].Value)
}

func leafProbability(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	total := v[0] + v[1]
	if total == 0 {
		return 0
	}
	return v[1] / total
}

// RandomForest averages leaf probabilities over its trees
type RandomForest struct {
	trees    []decisionTree
	features int
}

func (m *RandomForest) PredictProbability(x []float64) (float64, error) {
	if len(x) != m.features {
		return 0, fmt.Errorf("model expects %d features, got %d", m.features, len(x))
	}
	sum := 0.0
	for _, t := range m.trees {
		sum += t.positive(x)
	}
	return sum / float64(len(m.trees)), nil
}

func (m *RandomForest) Predict(x []float64) (int, error) {
	p, err := m.PredictProbability(x)
	if err != nil {
		return 0, err
	}
	return label(p), nil
}

func label(p float64) int {
	if p > decisionCutoff {
		return 1
	}
	return 0
}
