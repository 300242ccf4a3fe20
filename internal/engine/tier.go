package engine

import (
	"math"

	"mindscreen/internal/model"
)

// Tier boundaries. Outside the critical band a higher probability maps to a
// lower tier; this ordering is kept as deployed and is an open policy question.
const (
	criticalAt = 0.9
	lowAt      = 0.29
	moderateGt = 0.26
)

// TierMapper converts a probability and override state into guidance
type TierMapper struct{}

// NewTierMapper creates a new risk tier mapper
func NewTierMapper() *TierMapper {
	return &TierMapper{}
}

// Tier applies the boundaries in order; the first match wins.
func (m *TierMapper) Tier(probability float64, overrideTriggered bool) model.RiskTier {
	switch {
	case overrideTriggered || probability >= criticalAt:
		return model.TierCritical
	case probability >= lowAt:
		return model.TierLow
	case probability > moderateGt:
		return model.TierModerate
	default:
		return model.TierHigh
	}
}

// Map builds the assessment for one result. Guidance lists are copied so the
// returned value shares nothing with the static table.
func (m *TierMapper) Map(probability float64, prediction int, d model.OverrideDecision) model.RiskAssessment {
	tier := m.Tier(probability, d.Triggered)
	g := guidanceTable[tier]

	a := model.RiskAssessment{
		RiskLevel:             tier,
		RiskColor:             g.Color,
		Description:           g.Description,
		ProbabilityPercentage: math.Round(probability*1000) / 10,
		Prediction:            prediction,
		Suggestions:           cloneStrings(g.Suggestions),
		NextSteps:             cloneStrings(g.NextSteps),
		ProfessionalResources: model.CrisisResources{
			CrisisLines:     cloneStrings(crisisResources.CrisisLines),
			OnlineResources: cloneStrings(crisisResources.OnlineResources),
		},
		OverrideActive: d.Triggered,
	}

	if d.Triggered && len(d.Reasons) > 0 {
		a.EmergencyNotice = emergencyNotice
		a.OverrideReasons = cloneStrings(d.Reasons)
		a.SafetyMessage = safetyMessage
	}

	return a
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
