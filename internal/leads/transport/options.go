package transport

import "mlm_sales_backend/internal/leads/domain"

// ActivityOptions is what the activity form offers, in display order.
var ActivityOptions = ActivityOptionsResponse{
	Types: []Option{
		{Value: domain.ActivityCall, Label: "Phone Call", Icon: "Phone"},
		{Value: domain.ActivityEmail, Label: "Email", Icon: "Mail"},
		{Value: domain.ActivityText, Label: "Text Message", Icon: "MessageSquare"},
		{Value: domain.ActivityMeeting, Label: "In-Person Meeting", Icon: "Users"},
		{Value: domain.ActivitySocial, Label: "Social Media", Icon: "Share2"},
		{Value: domain.ActivityReferral, Label: "Referral", Icon: "UserPlus"},
		{Value: domain.ActivityPresentation, Label: "Presentation", Icon: "Presentation"},
		{Value: domain.ActivityEnrollment, Label: "Enrollment", Icon: "CheckCircle"},
	},
	Actions: []Option{
		{Value: domain.ActionCompleted, Label: "Completed"},
		{Value: domain.ActionAttempted, Label: "Attempted"},
		{Value: domain.ActionScheduled, Label: "Scheduled"},
		{Value: domain.ActionSent, Label: "Sent"},
		{Value: domain.ActionReceived, Label: "Received"},
		{Value: domain.ActionConnected, Label: "Connected"},
	},
	Outcomes: []Option{
		{Value: domain.OutcomePositive, Label: "Positive - Moving Forward"},
		{Value: domain.OutcomeNeutral, Label: "Neutral - No Change"},
		{Value: domain.OutcomeNegative, Label: "Negative - Lost Interest"},
	},
	Objections: []Option{
		{Value: domain.ObjectionPrice, Label: "Price"},
		{Value: domain.ObjectionTime, Label: "Time"},
		{Value: domain.ObjectionSkepticism, Label: "Skepticism"},
		{Value: domain.ObjectionNeed, Label: "Need"},
		{Value: domain.ObjectionAuthority, Label: "Authority"},
		{Value: domain.ObjectionTrust, Label: "Trust"},
		{Value: domain.ObjectionCompetition, Label: "Competition"},
		{Value: domain.ObjectionTiming, Label: "Timing"},
	},
}
