package insight

import (
	"github.com/shopspring/decimal"

	"forecastcrm/internal/models"
)

var largeDealAmount = decimal.NewFromInt(200000)

// actionsByStage is the fixed next-best-action playbook per stage.
var actionsByStage = map[string][]string{
	models.StageProspecting: {
		"Research company recent news and key decision makers",
		"Prepare tailored value proposition for their industry",
		"Schedule introductory discovery call",
		"Send industry-relevant case studies via email",
	},
	models.StageQualified: {
		"Schedule product demo with key stakeholders",
		"Map the buying committee and identify champion",
		"Prepare competitive differentiation points",
		"Send ROI calculator worksheet",
	},
	models.StageProposal: {
		"Follow up on proposal within 48 hours",
		"Schedule technical review meeting",
		"Address pricing concerns with flexible options",
		"Provide customer references in same industry",
	},
	models.StageNegotiation: {
		"Involve executive sponsor for final push",
		"Prepare contract red-line response document",
		"Set clear decision timeline with champion",
		"Offer limited-time implementation bonus",
	},
	models.StageWon: {
		"Schedule kickoff meeting with implementation team",
		"Send welcome package and onboarding timeline",
		"Introduce customer success manager",
	},
	models.StageLost: {
		"Schedule loss review meeting internally",
		"Send graceful close-out email to prospect",
		"Document lessons learned and objections",
	},
}
