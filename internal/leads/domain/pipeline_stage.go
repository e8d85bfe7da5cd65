package domain

import "strings"

const (
	PipelineStageNewLeads              = "New Leads"
	PipelineStageInitialContact        = "Initial Contact"
	PipelineStagePresentationScheduled = "Presentation Scheduled"
	PipelineStagePresented             = "Presented"
	PipelineStageFollowUp              = "Follow-up"
	PipelineStageProposalSent          = "Proposal Sent"
	PipelineStageNegotiation           = "Negotiation"
	PipelineStageClosedWon             = "Closed Won"
	PipelineStageClosedLost            = "Closed Lost"
)

// PipelineStages lists every stage in board order.
var PipelineStages = []string{
	PipelineStageNewLeads,
	PipelineStageInitialContact,
	PipelineStagePresentationScheduled,
	PipelineStagePresented,
	PipelineStageFollowUp,
	PipelineStageProposalSent,
	PipelineStageNegotiation,
	PipelineStageClosedWon,
	PipelineStageClosedLost,
}

var stageRank = func() map[string]int {
	m := make(map[string]int, len(PipelineStages))
	for i, s := range PipelineStages {
		m[s] = i
	}
	return m
}()

// legacyStageAliases maps the short statuses older imports and the lead
// form use onto pipeline stages.
var legacyStageAliases = map[string]string{
	"new":            PipelineStageNewLeads,
	"contacted":      PipelineStageInitialContact,
	"interested":     PipelineStageFollowUp,
	"not interested": PipelineStageClosedLost,
	"won":            PipelineStageClosedWon,
	"lost":           PipelineStageClosedLost,
}

func IsKnownPipelineStage(stage string) bool {
	_, ok := stageRank[stage]
	return ok
}

// NormalizeStage resolves a user-supplied status to a pipeline stage.
// Matching is case-insensitive and accepts the legacy aliases.
func NormalizeStage(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if IsKnownPipelineStage(trimmed) {
		return trimmed, true
	}
	lower := strings.ToLower(trimmed)
	for _, s := range PipelineStages {
		if strings.ToLower(s) == lower {
			return s, true
		}
	}
	if s, ok := legacyStageAliases[lower]; ok {
		return s, true
	}
	return "", false
}

// IsClosed reports whether the stage ends the pipeline.
func IsClosed(stage string) bool {
	return stage == PipelineStageClosedWon || stage == PipelineStageClosedLost
}

// StageBefore reports whether a sits earlier in the pipeline than b.
// Unknown stages sort before everything.
func StageBefore(a, b string) bool {
	ra, okA := stageRank[a]
	rb := stageRank[b]
	if !okA {
		return true
	}
	return ra < rb
}

// nextActiveStage returns the stage following current, stopping at Negotiation.
func nextActiveStage(current string) string {
	rank, ok := stageRank[current]
	if !ok {
		return PipelineStageInitialContact
	}
	negotiation := stageRank[PipelineStageNegotiation]
	if rank >= negotiation {
		return current
	}
	return PipelineStages[rank+1]
}
