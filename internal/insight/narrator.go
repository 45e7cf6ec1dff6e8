// Package insight turns a scored deal into reviewer-facing text: risk
// factors, next-best actions, a follow-up email draft and a narrative
// summary. All output comes from fixed tables and templates.
package insight

import (
	"fmt"
	"strings"
	"time"

	"forecastcrm/internal/models"
	"forecastcrm/internal/scoring"
)

const (
	maxRiskFactors = 5
	maxActions     = 4

	// Days since last activity assumed when a deal has no activities at all.
	noActivityDays = 30
)

// RiskFactors evaluates the factor rules in order against the deal and its
// activities (newest first) and returns at most maxRiskFactors matches.
func RiskFactors(deal models.Deal, activities []models.Activity, now time.Time) []string {
	daysSinceActivity := noActivityDays
	if len(activities) > 0 {
		daysSinceActivity = scoring.DaysBetween(activities[0].OccurredAt, now)
	}

	factors := make([]string, 0, maxRiskFactors)
	if daysSinceActivity > 14 {
		factors = append(factors, "No contact in over 2 weeks - risk of going cold")
	}
	if daysSinceActivity > 7 && daysSinceActivity <= 14 {
		factors = append(factors, "Communication frequency declining")
	}
	if deal.Amount.GreaterThan(largeDealAmount) {
		factors = append(factors, "Large deal size may require additional approvals")
	}
	if !hasMeeting(activities) {
		factors = append(factors, "No meetings logged - limited stakeholder engagement")
	}
	if len(activities) < 3 {
		factors = append(factors, "Low engagement level with fewer than 3 interactions")
	}
	if scoring.DaysBetween(deal.CreatedAt, now) > 60 &&
		(deal.Stage == models.StageProspecting || deal.Stage == models.StageQualified) {
		factors = append(factors, "Deal stalled - in early stage for over 60 days")
	}
	if len(factors) > maxRiskFactors {
		factors = factors[:maxRiskFactors]
	}
	return factors
}

// NextBestActions returns the stage playbook, capped at maxActions. Unknown
// stages get the prospecting playbook.
func NextBestActions(stage string) []string {
	actions, ok := actionsByStage[stage]
	if !ok {
		actions = actionsByStage[models.StageProspecting]
	}
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

// EmailDraft produces the canned follow-up email for a deal.
func EmailDraft(deal models.Deal) models.EmailDraft {
	return models.EmailDraft{
		Subject: fmt.Sprintf("Following up on %s - Next Steps", deal.Name),
		Body: fmt.Sprintf(`Hi there,

I hope this message finds you well. I wanted to follow up regarding %s and our recent conversations.

Based on our discussions, I believe there's a strong fit between our solution and your team's needs. I'd love to schedule a brief call this week to:

1. Address any remaining questions or concerns you may have
2. Discuss the timeline and next steps for moving forward
3. Review the implementation approach and expected outcomes

Would you have 30 minutes available this Thursday or Friday afternoon?

I'm confident we can deliver significant value to your organization, and I look forward to continuing our conversation.

Best regards`, deal.Name),
	}
}

// Summary builds the one-paragraph deal narrative: stage and value, activity
// mix, age, and close-date outlook.
func Summary(deal models.Deal, activities []models.Activity, now time.Time) string {
	parts := []string{
		fmt.Sprintf("Deal %q is in the %s stage valued at $%s.", deal.Name, deal.Stage, groupThousands(deal.Amount.String())),
	}
	if len(activities) > 0 {
		parts = append(parts, fmt.Sprintf("%d activities logged (%s).", len(activities), activityMix(activities)))
	} else {
		parts = append(parts, "No activities have been logged yet.")
	}
	parts = append(parts, fmt.Sprintf("Open for %d days.", scoring.DaysBetween(deal.CreatedAt, now)))
	if deal.ExpectedCloseDate != nil {
		daysToClose := scoring.DaysBetween(now, *deal.ExpectedCloseDate)
		if daysToClose > 0 {
			parts = append(parts, fmt.Sprintf("Expected to close in %d days.", daysToClose))
		} else {
			parts = append(parts, fmt.Sprintf("Close date passed %d days ago.", -daysToClose))
		}
	}
	return strings.Join(parts, " ")
}

func hasMeeting(activities []models.Activity) bool {
	for _, a := range activities {
		if a.Type == models.ActivityMeeting {
			return true
		}
	}
	return false
}

// activityMix counts activities per type in first-seen order, rendered as
// "2 call(s), 1 email(s)".
func activityMix(activities []models.Activity) string {
	counts := map[string]int{}
	order := make([]string, 0, 4)
	for _, a := range activities {
		if _, seen := counts[a.Type]; !seen {
			order = append(order, a.Type)
		}
		counts[a.Type]++
	}
	pieces := make([]string, 0, len(order))
	for _, typ := range order {
		pieces = append(pieces, fmt.Sprintf("%d %s(s)", counts[typ], strings.ToLower(typ)))
	}
	return strings.Join(pieces, ", ")
}

// groupThousands inserts comma separators into the integer part of a
// decimal string.
func groupThousands(raw string) string {
	intPart := raw
	frac := ""
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		intPart, frac = raw[:idx], raw[idx:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
