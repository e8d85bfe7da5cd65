package reminders

import (
	"fmt"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/leads/domain"
	leadrepo "mlm_sales_backend/internal/leads/repository"
)

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const defaultFollowUpDays = 7

var followUpDays = map[string]int{
	domain.PipelineStageNewLeads:              1,
	domain.PipelineStageInitialContact:        3,
	domain.PipelineStagePresentationScheduled: 2,
	domain.PipelineStageProposalSent:          5,
	domain.PipelineStageNegotiation:           2,
	domain.PipelineStageClosedWon:             30,
	domain.PipelineStageClosedLost:            90,
}

var objectionActions = map[string]string{
	"price":       "Send ROI calculator and value proposition materials",
	"time":        "Check in on timing - circumstances may have changed",
	"skepticism":  "Share additional case studies and success stories",
	"need":        "Provide industry insights about emerging challenges",
	"authority":   "Schedule group presentation with decision makers",
	"trust":       "Send testimonials and offer reference calls",
	"competition": "Present competitive advantage analysis",
	"timing":      "Follow up on timing constraints and offer flexible options",
}

// PriorityStyle is the presentation metadata the UI uses for a priority.
type PriorityStyle struct {
	Priority  string `json:"priority"`
	Score     int    `json:"score"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

var priorityStyles = []PriorityStyle{
	{Priority: PriorityUrgent, Score: 4, Color: "bg-red-500", TextColor: "text-red-700"},
	{Priority: PriorityHigh, Score: 3, Color: "bg-orange-500", TextColor: "text-orange-700"},
	{Priority: PriorityMedium, Score: 2, Color: "bg-yellow-500", TextColor: "text-yellow-700"},
	{Priority: PriorityLow, Score: 1, Color: "bg-green-500", TextColor: "text-green-700"},
}

// Style returns the presentation metadata for a priority. Unknown
// priorities score like medium and render grey.
func Style(priority string) PriorityStyle {
	for _, s := range priorityStyles {
		if s.Priority == priority {
			return s
		}
	}
	return PriorityStyle{Priority: priority, Score: 2, Color: "bg-gray-500", TextColor: "text-gray-700"}
}

// PriorityStyles lists every priority from most to least urgent.
func PriorityStyles() []PriorityStyle {
	out := make([]PriorityStyle, len(priorityStyles))
	copy(out, priorityStyles)
	return out
}

// ExpectedFollowUpDays is how long a lead in the given stage may go without contact.
func ExpectedFollowUpDays(status string) int {
	if days, ok := followUpDays[status]; ok {
		return days
	}
	return defaultFollowUpDays
}

// LastInteraction is the latest of the lead's activities, appointments,
// notes and the completion time of its last reminder. Cancelled and no-show
// appointments are not interactions. Leads with no interaction fall back to
// their creation date.
func LastInteraction(lead leadrepo.Lead, appointments []apptrepo.Appointment, completedAt time.Time) time.Time {
	var last time.Time
	if a, ok := lead.LatestActivity(); ok {
		last = a.Date
	}
	for _, appt := range appointments {
		if appt.Status == appttransport.StatusCancelled || appt.Status == appttransport.StatusNoShow {
			continue
		}
		if appt.ScheduledAt.After(last) {
			last = appt.ScheduledAt
		}
	}
	if d, ok := lead.LatestNoteDate(); ok && d.After(last) {
		last = d
	}
	if completedAt.After(last) {
		last = completedAt
	}
	if last.IsZero() {
		return lead.DateAdded
	}
	return last
}

// DaysBetween counts whole days from then to now, rounding toward negative infinity.
func DaysBetween(then, now time.Time) int {
	diff := now.Sub(then)
	days := int(diff / (24 * time.Hour))
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	return days
}

func priorityFor(value float64, overdue, daysSince int) string {
	switch {
	case value > 50000 && overdue > 0:
		return PriorityUrgent
	case overdue > 7:
		return PriorityUrgent
	case overdue > 3 && value > 25000:
		return PriorityHigh
	case overdue > 0:
		return PriorityMedium
	case daysSince > 14:
		return PriorityLow
	}
	return PriorityMedium
}

func lastObjection(lead leadrepo.Lead) string {
	var (
		latest time.Time
		kind   string
	)
	for _, a := range lead.ContactHistory {
		if a.Objection == nil || a.Objection.Type == "" {
			continue
		}
		if kind == "" || a.Date.After(latest) {
			latest = a.Date
			kind = a.Objection.Type
		}
	}
	return kind
}

// SuggestedAction picks the next step from the latest objection, falling
// back to what the lead's stage calls for.
func SuggestedAction(lead leadrepo.Lead, overdue int) string {
	if action, ok := objectionActions[lastObjection(lead)]; ok {
		return action
	}

	switch lead.Status {
	case domain.PipelineStageNewLeads:
		if overdue > 2 {
			return "Call immediately"
		}
		return "Make initial contact"
	case domain.PipelineStageInitialContact:
		return "Schedule presentation"
	case domain.PipelineStagePresentationScheduled:
		return "Confirm upcoming presentation"
	case domain.PipelineStageProposalSent:
		if overdue > 3 {
			return "Follow up on proposal"
		}
		return "Check for questions"
	case domain.PipelineStageNegotiation:
		return "Continue negotiation"
	case domain.PipelineStageClosedWon:
		return "Customer check-in call"
	case domain.PipelineStageClosedLost:
		return "Re-engagement attempt"
	}
	return "Follow up with lead"
}

// Timing renders how far past due a follow-up is.
func Timing(overdue int) string {
	switch {
	case overdue == 0:
		return "Due today"
	case overdue == 1:
		return "1 day overdue"
	case overdue > 1:
		return fmt.Sprintf("%d days overdue", overdue)
	}
	return fmt.Sprintf("Due in %d days", -overdue)
}

// Analyze builds the reminder for one lead, or reports false when the
// follow-up is not due yet.
func Analyze(lead leadrepo.Lead, appointments []apptrepo.Appointment, completedAt, now time.Time) (Reminder, bool) {
	last := LastInteraction(lead, appointments, completedAt)
	daysSince := DaysBetween(last, now)
	overdue := daysSince - ExpectedFollowUpDays(lead.Status)
	if overdue < 0 {
		return Reminder{}, false
	}

	priority := priorityFor(lead.DealValue(), overdue, daysSince)
	style := Style(priority)
	return Reminder{
		LeadID:                   lead.ID,
		LeadName:                 lead.Name,
		LeadEmail:                lead.Email,
		LeadPhone:                lead.Phone,
		Status:                   lead.Status,
		LastInteraction:          last,
		DaysSinceLastInteraction: daysSince,
		DaysOverdue:              overdue,
		Priority:                 priority,
		PriorityColor:            style.Color,
		PriorityTextColor:        style.TextColor,
		SuggestedAction:          SuggestedAction(lead, overdue),
		Timing:                   Timing(overdue),
		EstimatedValue:           lead.EstimatedValue,
		Source:                   lead.Source,
	}, true
}
