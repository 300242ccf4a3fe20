package engine

import (
	"strings"

	"mindscreen/internal/model"
)

// Override reasons
const (
	ReasonSuicidalIdeation = "Suicidal ideation reported"
	ReasonExtremePressure  = "Extreme academic and work pressure"
	ReasonSleepDeprivation = "Severely inadequate sleep"
)

const (
	extremePressure = 4.0
	minSleepHours   = 4.0
)

var ideationAnswers = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
	"y":    true,
}

// OverrideEvaluator detects emergency indicators in raw answers.
// Only the ideation rule sets Triggered; the other rules add reasons that the
// classifier adapter uses as a probability floor.
type OverrideEvaluator struct{}

// NewOverrideEvaluator creates a new safety override evaluator
func NewOverrideEvaluator() *OverrideEvaluator {
	return &OverrideEvaluator{}
}

// Evaluate applies the rules in fixed order.
func (e *OverrideEvaluator) Evaluate(raw model.RawResponses) model.OverrideDecision {
	d := model.OverrideDecision{Reasons: []string{}}

	answer := strings.ToLower(strings.TrimSpace(raw.At(model.PosSuicidalThoughts).Text()))
	if ideationAnswers[answer] {
		d.Triggered = true
		d.Reasons = append(d.Reasons, ReasonSuicidalIdeation)
	}

	academic, okA := raw.At(model.PosAcademicPressure).Number()
	work, okW := raw.At(model.PosWorkPressure).Number()
	if okA && okW && academic >= extremePressure && work >= extremePressure && !d.Triggered {
		d.Reasons = append(d.Reasons, ReasonExtremePressure)
	}

	if sleep, ok := raw.At(model.PosSleepDuration).Number(); ok && sleep < minSleepHours {
		d.Reasons = append(d.Reasons, ReasonSleepDeprivation)
	}

	return d
}
