package transport

import (
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/scoring"
)

func ToLeadResponse(lead repository.Lead) LeadResponse {
	history := make([]ActivityResponse, 0, len(lead.ContactHistory))
	for _, a := range lead.ContactHistory {
		history = append(history, ToActivityResponse(a))
	}

	notes := make([]NoteResponse, 0, len(lead.Notes))
	for _, n := range lead.Notes {
		notes = append(notes, ToNoteResponse(n))
	}

	factors := lead.ScoreFactors
	if factors == nil {
		factors = map[string]float64{}
	}

	return LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Company:        lead.Company,
		Source:         lead.Source,
		Status:         lead.Status,
		DateAdded:      lead.DateAdded,
		LastContacted:  lead.LastContacted,
		ContactHistory: history,
		Notes:          notes,
		AIScore:        lead.AIScore,
		ScoreTier:      scoring.Tier(lead.AIScore),
		Hot:            scoring.IsHot(lead.AIScore),
		ScoreFactors:   factors,
		EstimatedValue: lead.EstimatedValue,
		ContractValue:  lead.ContractValue,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}

func ToActivityResponse(a repository.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Action:      a.Action,
		Outcome:     a.Outcome,
		Description: a.Description,
		Date:        a.Date,
	}
	if a.Objection != nil {
		resp.Objection = &ObjectionResponse{Type: a.Objection.Type, Details: a.Objection.Details}
	}
	return resp
}

func ToNoteResponse(n repository.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Content:   n.Content,
		Date:      n.Date,
		UpdatedAt: n.UpdatedAt,
	}
}
