package engine

import (
	"fmt"
	"log/slog"
	"math"

	"mindscreen/internal/model"
)

const (
	heuristicFields   = 10
	heuristicNeutral  = 0.5
	heuristicMin      = 0.1
	heuristicMax      = 0.9
	heuristicCutoff   = 0.5
	recoveredProb     = 0.3
	concernFloor      = 0.4
	overrideProb      = 0.95
	overridePredicted = 1
)

// Provenance records where a ClassifierResult came from
type Provenance int

const (
	// ProvenanceModel is a result from the trained classifier
	ProvenanceModel Provenance = iota
	// ProvenanceHeuristic is the fallback scorer used when no artifact is loaded
	ProvenanceHeuristic
	// ProvenanceRecovered is the fixed result used after an inference failure
	ProvenanceRecovered
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceModel:
		return "model"
	case ProvenanceHeuristic:
		return "heuristic"
	default:
		return "recovered"
	}
}

// UsedFallback reports whether the trained classifier did not produce the result.
func (p Provenance) UsedFallback() bool {
	return p != ProvenanceModel
}

// ClassifierAdapter puts the trained classifier and the heuristic scorer behind one call
type ClassifierAdapter struct {
	models *ModelContext
	logger *slog.Logger
}

// NewClassifierAdapter creates a new classifier adapter
func NewClassifierAdapter(models *ModelContext, logger *slog.Logger) *ClassifierAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifierAdapter{models: models, logger: logger}
}

// Predict scores vec with the trained classifier. With no classifier (or a nil
// vector) the heuristic scorer runs over raw instead. Inference failures never
// escape: they degrade to label 0, probability 0.3.
func (c *ClassifierAdapter) Predict(vec FeatureVector, raw model.RawResponses) (model.ClassifierResult, Provenance) {
	clf, ok := c.models.Classifier()
	if !ok || vec == nil {
		return heuristicScore(raw), ProvenanceHeuristic
	}

	res, err := c.infer(clf, vec)
	if err != nil {
		c.logger.Warn("model prediction failed, using recovered result", "error", err)
		return model.ClassifierResult{Label: 0, Probability: recoveredProb}, ProvenanceRecovered
	}
	return res, ProvenanceModel
}

// ApplyConcernFloor raises the probability of a no-risk label to 0.4 when the
// safety evaluator reported concerns. The label is left alone. Recovered results
// keep their fixed probability.
func (c *ClassifierAdapter) ApplyConcernFloor(res model.ClassifierResult, prov Provenance, d model.OverrideDecision) model.ClassifierResult {
	if prov == ProvenanceRecovered || res.Label != 0 || !d.HasConcerns() {
		return res
	}
	if res.Probability < concernFloor {
		c.logger.Debug("low-risk label with concerning indicators, flooring probability",
			"reasons", d.Reasons, "probability", res.Probability)
		res.Probability = concernFloor
	}
	return res
}

func (c *ClassifierAdapter) infer(clf Classifier, vec FeatureVector) (res model.ClassifierResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InferenceError{Stage: "predict", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	x := make([]float64, len(vec))
	copy(x, vec)

	if scaler, ok := c.models.Scaler(); ok {
		x, err = scaler.Transform(x)
		if err != nil {
			return res, &InferenceError{Stage: "scale", Err: err}
		}
	}

	label, err := clf.Predict(x)
	if err != nil {
		return res, &InferenceError{Stage: "predict", Err: err}
	}
	if label != 0 && label != 1 {
		return res, &InferenceError{Stage: "predict", Err: fmt.Errorf("label %d is not binary", label)}
	}

	p, err := clf.PredictProbability(x)
	if err != nil {
		return res, &InferenceError{Stage: "predict_proba", Err: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return res, &InferenceError{Stage: "predict_proba", Err: fmt.Errorf("probability %v out of range", p)}
	}

	return model.ClassifierResult{Label: label, Probability: p}, nil
}

// heuristicScore divides by a fixed 10 so short vectors score lower.
func heuristicScore(raw model.RawResponses) model.ClassifierResult {
	sum := 0.0
	for pos := 0; pos < heuristicFields && pos < len(raw); pos++ {
		if f, ok := raw[pos].Number(); ok {
			sum += f
		} else {
			sum += heuristicNeutral
		}
	}
	score := sum / heuristicFields

	res := model.ClassifierResult{
		Probability: math.Min(heuristicMax, math.Max(heuristicMin, score)),
	}
	if score > heuristicCutoff {
		res.Label = 1
	}
	return res
}
