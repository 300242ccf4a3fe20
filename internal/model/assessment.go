package model

import "time"

// RiskTier is the categorical engine output
type RiskTier string

const (
	TierLow      RiskTier = "Low Risk"
	TierModerate RiskTier = "Moderate Risk"
	TierHigh     RiskTier = "High Risk"
	TierCritical RiskTier = "CRITICAL RISK"
)

// Tiers lists every tier in display order.
var Tiers = []RiskTier{TierLow, TierModerate, TierHigh, TierCritical}

// OverrideDecision is the safety evaluator's verdict
type OverrideDecision struct {
	Triggered bool     `json:"triggered"`
	Reasons   []string `json:"reasons"`
}

// HasConcerns reports whether any rule produced a reason.
func (d OverrideDecision) HasConcerns() bool {
	return len(d.Reasons) > 0
}

// ClassifierResult is a binary label with its positive-class probability
type ClassifierResult struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// CrisisResources is static contact content attached to every assessment
type CrisisResources struct {
	CrisisLines     []string `json:"crisis_lines" bson:"crisisLines"`
	OnlineResources []string `json:"online_resources" bson:"onlineResources"`
}

// RiskAssessment is the guidance payload returned to the client
type RiskAssessment struct {
	RiskLevel             RiskTier        `json:"risk_level" bson:"riskLevel"`
	RiskColor             string          `json:"risk_color" bson:"riskColor"`
	Description           string          `json:"description" bson:"description"`
	ProbabilityPercentage float64         `json:"probability_percentage" bson:"probabilityPercentage"`
	Prediction            int             `json:"prediction" bson:"prediction"`
	Suggestions           []string        `json:"suggestions" bson:"suggestions"`
	ProfessionalResources CrisisResources `json:"professional_resources" bson:"professionalResources"`
	NextSteps             []string        `json:"next_steps" bson:"nextSteps"`
	OverrideActive        bool            `json:"override_active" bson:"overrideActive"`

	// Set only when the safety override fired
	EmergencyNotice string   `json:"emergency_notice,omitempty" bson:"emergencyNotice,omitempty"`
	OverrideReasons []string `json:"override_reason,omitempty" bson:"overrideReasons,omitempty"`
	SafetyMessage   string   `json:"safety_message,omitempty" bson:"safetyMessage,omitempty"`
}

// AssessmentResult is what the engine returns for one questionnaire
type AssessmentResult struct {
	Prediction     int            `json:"prediction"`
	Probability    float64        `json:"probability"`
	Analysis       RiskAssessment `json:"analysis"`
	SafetyOverride bool           `json:"safety_override"`
	FallbackUsed   bool           `json:"fallback_used"`
}

// AssessmentRecord is a stored submission
type AssessmentRecord struct {
	ID             string         `json:"id" bson:"_id"`
	UserID         string         `json:"userId" bson:"userId"`
	Responses      []interface{}  `json:"responses" bson:"responses"`
	Prediction     int            `json:"prediction" bson:"prediction"`
	Probability    float64        `json:"probability" bson:"probability"`
	Analysis       RiskAssessment `json:"analysis" bson:"analysis"`
	SafetyOverride bool           `json:"safetyOverride" bson:"safetyOverride"`
	FallbackUsed   bool           `json:"fallbackUsed" bson:"fallbackUsed"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}

// SubmitRequest is the request body for a questionnaire submission
type SubmitRequest struct {
	UserID    string       `json:"userId"`
	Responses RawResponses `json:"responses"`
}

// SubmitResponse is returned after a submission is assessed
type SubmitResponse struct {
	Success      bool      `json:"success"`
	AssessmentID string    `json:"assessment_id"`
	Timestamp    time.Time `json:"timestamp"`
	AssessmentResult
}

// TierStats holds running counts per tier
type TierStats struct {
	Total     int64              `json:"total"`
	Overrides int64              `json:"overrides"`
	ByTier    map[RiskTier]int64 `json:"by_tier"`
}

// NewTierStats returns zeroed stats with every tier present.
func NewTierStats() *TierStats {
	s := &TierStats{ByTier: make(map[RiskTier]int64, len(Tiers))}
	for _, t := range Tiers {
		s.ByTier[t] = 0
	}
	return s
}

// CrisisAlert is pushed to connected counselors when the override fires
type CrisisAlert struct {
	AssessmentID string    `json:"assessment_id"`
	UserID       string    `json:"user_id"`
	Reasons      []string  `json:"reasons"`
	Timestamp    time.Time `json:"timestamp"`
}
