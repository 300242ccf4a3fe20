// Package engine implements the safety-override risk classification pipeline:
// override rules, feature alignment, classification and tier mapping.
package engine

import (
	"log/slog"

	"mindscreen/internal/model"
)

// Engine runs one questionnaire through the pipeline. It holds no per-request
// state; the ModelContext it reads is immutable, so one Engine serves all requests.
type Engine struct {
	models     *ModelContext
	aligner    *Aligner
	overrides  *OverrideEvaluator
	classifier *ClassifierAdapter
	tiers      *TierMapper
	logger     *slog.Logger
}

// New creates an engine over models. A nil context runs degraded.
func New(models *ModelContext, logger *slog.Logger) *Engine {
	if models == nil {
		models = DegradedContext()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		models:     models,
		aligner:    NewAligner(),
		overrides:  NewOverrideEvaluator(),
		classifier: NewClassifierAdapter(models, logger),
		tiers:      NewTierMapper(),
		logger:     logger,
	}
}

// Status reports whether a trained model or the fallback scorer is active.
func (e *Engine) Status() Status {
	return e.models.Status()
}

// Assess evaluates raw. Override rules run first and win outright; on an
// override no preprocessing or inference happens, so a malformed field cannot
// hide an emergency. Otherwise a *PreprocessingError is the only possible error.
func (e *Engine) Assess(raw model.RawResponses) (*model.AssessmentResult, error) {
	decision := e.overrides.Evaluate(raw)

	if decision.Triggered {
		e.logger.Warn("safety override activated", "reasons", decision.Reasons)
		return &model.AssessmentResult{
			Prediction:     overridePredicted,
			Probability:    overrideProb,
			Analysis:       e.tiers.Map(overrideProb, overridePredicted, decision),
			SafetyOverride: true,
		}, nil
	}

	row, err := e.aligner.Row(raw)
	if err != nil {
		return nil, err
	}

	var vec FeatureVector
	if _, ok := e.models.Classifier(); ok {
		vec = e.aligner.Project(row, e.models.Schema())
	}

	res, prov := e.classifier.Predict(vec, raw)
	res = e.classifier.ApplyConcernFloor(res, prov, decision)

	e.logger.Debug("assessment scored",
		"prediction", res.Label,
		"probability", res.Probability,
		"provenance", prov.String(),
		"concerns", decision.Reasons)

	return &model.AssessmentResult{
		Prediction:     res.Label,
		Probability:    res.Probability,
		Analysis:       e.tiers.Map(res.Probability, res.Label, decision),
		SafetyOverride: false,
		FallbackUsed:   prov.UsedFallback(),
	}, nil
}
