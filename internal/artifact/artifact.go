// Package artifact loads trained model artifacts (feature schema, scaler and
// classifier) exported from the training pipeline as JSON.
package artifact

import (
	"encoding/json"
	"fmt"

	"mindscreen/internal/engine"
)

// Model types
const (
	TypeLogisticRegression = "logistic_regression"
	TypeRandomForest       = "random_forest"
)

// ValidationError reports an artifact that does not match the expected shape
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid model artifact: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type document struct {
	Features []string `json:"features"`
	Scaler   *struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Model struct {
		Type         string         `json:"type"`
		Coefficients []float64      `json:"coefficients"`
		Intercept    float64        `json:"intercept"`
		Trees        []decisionTree `json:"trees"`
	} `json:"model"`
	Info struct {
		Name     string   `json:"name"`
		Accuracy *float64 `json:"accuracy"`
	} `json:"info"`
}

// Artifact is a parsed, validated model artifact
type Artifact struct {
	Features   []string
	Scaler     *StandardScaler
	Classifier engine.Classifier
	Info       engine.ModelInfo
}

// Parse validates data against the artifact schema and checks that every
// dimension agrees with the feature list.
func Parse(data []byte) (*Artifact, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Err: err}
	}

	n := len(doc.Features)
	a := &Artifact{
		Features: doc.Features,
		Info: engine.ModelInfo{
			Name:     doc.Info.Name,
			Type:     doc.Model.Type,
			Accuracy: doc.Info.Accuracy,
		},
	}

	if doc.Scaler != nil {
		if len(doc.Scaler.Mean) != n || len(doc.Scaler.Scale) != n {
			return nil, &ValidationError{Err: fmt.Errorf("scaler has %d/%d entries for %d features",
				len(doc.Scaler.Mean), len(doc.Scaler.Scale), n)}
		}
		a.Scaler = &StandardScaler{mean: doc.Scaler.Mean, scale: doc.Scaler.Scale}
	}

	switch doc.Model.Type {
	case TypeLogisticRegression:
		if len(doc.Model.Coefficients) != n {
			return nil, &ValidationError{Err: fmt.Errorf("%d coefficients for %d features",
				len(doc.Model.Coefficients), n)}
		}
		a.Classifier = &LogisticRegression{
			coefficients: doc.Model.Coefficients,
			intercept:    doc.Model.Intercept,
		}
	case TypeRandomForest:
		for ti, t := range doc.Model.Trees {
			if err := checkTree(t, n); err != nil {
				return nil, &ValidationError{Err: fmt.Errorf("tree %d: %w", ti, err)}
			}
		}
		a.Classifier = &RandomForest{trees: doc.Model.Trees, features: n}
	default:
		return nil, &ValidationError{Err: fmt.Errorf("unsupported model type %q", doc.Model.Type)}
	}

	return a, nil
}

// checkTree rejects out-of-range features and children that do not point
// forward, which also rules out cycles.
func checkTree(t decisionTree, features int) error {
	for i, node := range t.Nodes {
		if node.isLeaf() {
			if len(node.Value) < 2 {
				return fmt.Errorf("leaf %d needs two class values", i)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d of %d", i, node.Feature, features)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}

// ModelContext converts the artifact into the engine's immutable model state.
func (a *Artifact) ModelContext() *engine.ModelContext {
	var scaler engine.Scaler
	if a.Scaler != nil {
		scaler = a.Scaler
	}
	return engine.NewModelContext(a.Classifier, scaler, engine.NewFeatureSchema(a.Features), a.Info)
}
