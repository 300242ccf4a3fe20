package engine

import "mindscreen/internal/model"

type guidance struct {
	Color       string
	Description string
	Suggestions []string
	NextSteps   []string
}

var guidanceTable = map[model.RiskTier]guidance{
	model.TierCritical: {
		Color:       "darkred",
		Description: "IMMEDIATE PROFESSIONAL INTERVENTION REQUIRED. This assessment indicates severe mental health concerns that require urgent attention.",
		Suggestions: []string{
			"CALL 911 or go to your nearest emergency room immediately",
			"Contact the National Suicide Prevention Lifeline: 988",
			"Do not leave the person alone - stay with them or have someone stay with them",
			"Remove any potential means of self-harm from the environment",
			"Contact a mental health crisis team or mobile crisis unit",
			"Inform trusted family members or friends immediately",
		},
		NextSteps: []string{
			"IMMEDIATE ACTION: Call 911 or go to emergency room",
			"Contact crisis helpline: 988 (National Suicide Prevention Lifeline)",
			"Do not delay - seek help within the next hour",
			"Have someone stay with you until professional help arrives",
		},
	},
	model.TierLow: {
		Color:       "green",
		Description: "You appear to be managing your mental health well.",
		Suggestions: []string{
			"Continue maintaining healthy sleep patterns (7-9 hours per night)",
			"Keep up with regular physical activity and social connections",
			"Practice stress management techniques like meditation or deep breathing",
			"Maintain a balanced diet and stay hydrated",
			"Keep a journal to track your mood and identify patterns",
		},
		NextSteps: []string{
			"Continue current positive mental health practices",
			"Regular self-check-ins monthly",
			"Maintain healthy lifestyle habits",
		},
	},
	model.TierModerate: {
		Color:       "yellow",
		Description: "You may be experiencing some mental health challenges that warrant attention.",
		Suggestions: []string{
			"Consider speaking with a mental health counselor or therapist",
			"Reach out to trusted friends, family members, or support groups",
			"Prioritize self-care activities that bring you joy and relaxation",
			"Consider stress reduction techniques like mindfulness or yoga",
			"Evaluate your workload and academic pressures - consider adjustments if possible",
			"Maintain regular sleep and eating schedules",
		},
		NextSteps: []string{
			"Schedule appointment with counselor within 2 weeks",
			"Start daily mindfulness or meditation practice",
			"Reduce stressors where possible",
			"Increase social support activities",
		},
	},
	model.TierHigh: {
		Color:       "red",
		Description: "You may be experiencing significant mental health challenges.",
		Suggestions: []string{
			"Seek professional mental health support immediately",
			"Contact your healthcare provider or a mental health crisis line",
			"Inform trusted family members or friends about how you're feeling",
			"Consider campus counseling services if you're a student",
			"Avoid isolation - stay connected with your support network",
			"If having thoughts of self-harm, contact emergency services or crisis helpline immediately",
		},
		NextSteps: []string{
			"Seek professional help within 24-48 hours",
			"Create a safety plan with trusted person",
			"Remove access to means of self-harm if applicable",
			"Consider intensive outpatient programs or immediate counseling",
		},
	},
}

var crisisResources = model.CrisisResources{
	CrisisLines: []string{
		"National Suicide Prevention Lifeline: 988",
		"Crisis Text Line: Text HOME to 741741",
		"SAMHSA National Helpline: 1-800-662-4357",
		"International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/",
	},
	OnlineResources: []string{
		"Mental Health America: mhanational.org",
		"National Alliance on Mental Illness: nami.org",
		"Psychology Today Therapist Finder: psychologytoday.com",
		"Crisis Text Line: crisistextline.org",
	},
}

const (
	emergencyNotice = "IMMEDIATE ATTENTION REQUIRED"
	safetyMessage   = "This assessment has been flagged for immediate professional attention due to critical risk indicators."
)
