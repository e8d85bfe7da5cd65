package domain

const (
	ActivityCall         = "call"
	ActivityEmail        = "email"
	ActivityText         = "text"
	ActivityMeeting      = "meeting"
	ActivitySocial       = "social"
	ActivityReferral     = "referral"
	ActivityPresentation = "presentation"
	ActivityEnrollment   = "enrollment"
)

const (
	ActionCompleted = "completed"
	ActionAttempted = "attempted"
	ActionScheduled = "scheduled"
	ActionSent      = "sent"
	ActionReceived  = "received"
	ActionConnected = "connected"
)

const (
	OutcomePositive = "positive"
	OutcomeNeutral  = "neutral"
	OutcomeNegative = "negative"
)

const (
	ObjectionPrice       = "price"
	ObjectionTime        = "time"
	ObjectionSkepticism  = "skepticism"
	ObjectionNeed        = "need"
	ObjectionAuthority   = "authority"
	ObjectionTrust       = "trust"
	ObjectionCompetition = "competition"
	ObjectionTiming      = "timing"
)

var ActivityTypes = []string{
	ActivityCall, ActivityEmail, ActivityText, ActivityMeeting,
	ActivitySocial, ActivityReferral, ActivityPresentation, ActivityEnrollment,
}

var ActivityActions = []string{
	ActionCompleted, ActionAttempted, ActionScheduled,
	ActionSent, ActionReceived, ActionConnected,
}

var Outcomes = []string{OutcomePositive, OutcomeNeutral, OutcomeNegative}

var ObjectionTypes = []string{
	ObjectionPrice, ObjectionTime, ObjectionSkepticism, ObjectionNeed,
	ObjectionAuthority, ObjectionTrust, ObjectionCompetition, ObjectionTiming,
}

// Transition is the result of applying an activity outcome to a lead's stage.
type Transition struct {
	Stage   string
	Changed bool
	Reason  string
}

// ProgressStage decides the lead's stage after an activity with the given
// type, action and outcome. Neutral outcomes never move the lead, and a won
// lead stays won.
func ProgressStage(current, activityType, action, outcome string) Transition {
	unchanged := Transition{Stage: current}

	if current == PipelineStageClosedWon {
		return unchanged
	}

	switch outcome {
	case OutcomeNegative:
		if current == PipelineStageClosedLost {
			return unchanged
		}
		return Transition{Stage: PipelineStageClosedLost, Changed: true, Reason: "negative outcome"}
	case OutcomePositive:
	default:
		return unchanged
	}

	if current == PipelineStageClosedLost {
		return Transition{Stage: PipelineStageFollowUp, Changed: true, Reason: "re-engaged"}
	}

	if activityType == ActivityEnrollment {
		return Transition{Stage: PipelineStageClosedWon, Changed: true, Reason: "enrolled"}
	}

	if action == ActionScheduled && (activityType == ActivityPresentation || activityType == ActivityMeeting) {
		if StageBefore(current, PipelineStagePresentationScheduled) {
			return Transition{Stage: PipelineStagePresentationScheduled, Changed: true, Reason: "presentation scheduled"}
		}
		return unchanged
	}

	if activityType == ActivityPresentation {
		if StageBefore(current, PipelineStagePresented) {
			return Transition{Stage: PipelineStagePresented, Changed: true, Reason: "presentation given"}
		}
		return unchanged
	}

	next := nextActiveStage(current)
	if next == current {
		return unchanged
	}
	return Transition{Stage: next, Changed: true, Reason: "positive outcome"}
}
