package transport

import "time"

// Request DTOs
type CreateLeadRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Email          string   `json:"email" validate:"omitempty,email,max=254"`
	Phone          string   `json:"phone" validate:"omitempty,max=40"`
	Company        string   `json:"company" validate:"max=200"`
	Source         string   `json:"source" validate:"max=100"`
	Status         string   `json:"status" validate:"omitempty,pipelinestage"`
	EstimatedValue float64  `json:"estimatedValue" validate:"min=0"`
	ContractValue  *float64 `json:"contractValue,omitempty" validate:"omitempty,min=0"`
	Notes          string   `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateLeadRequest struct {
	Name           *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string       `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone          *string       `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company        *string       `json:"company,omitempty" validate:"omitempty,max=200"`
	Source         *string       `json:"source,omitempty" validate:"omitempty,max=100"`
	Status         *string       `json:"status,omitempty" validate:"omitempty,pipelinestage"`
	EstimatedValue *float64      `json:"estimatedValue,omitempty" validate:"omitempty,min=0"`
	ContractValue  OptionalFloat `json:"contractValue,omitempty" validate:"-"`
}

type UpdateStageRequest struct {
	Status string `json:"status" validate:"required,pipelinestage"`
}

type ListLeadsRequest struct {
	Search string `form:"search" validate:"max=100"`
	Status string `form:"status" validate:"omitempty,pipelinestage"`
}

type ObjectionRequest struct {
	Type    string `json:"type" validate:"required,oneof=price time skepticism need authority trust competition timing"`
	Details string `json:"details" validate:"max=1000"`
}

type AddActivityRequest struct {
	Type        string            `json:"type" validate:"required,oneof=call email text meeting social referral presentation enrollment"`
	Action      string            `json:"action" validate:"required,oneof=completed attempted scheduled sent received connected"`
	Outcome     string            `json:"outcome" validate:"required,oneof=positive neutral negative"`
	Description string            `json:"description" validate:"required,max=2000"`
	Date        *time.Time        `json:"date,omitempty"`
	Objection   *ObjectionRequest `json:"objection,omitempty"`
}

// Response DTOs
type ObjectionResponse struct {
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

type ActivityResponse struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Action      string             `json:"action"`
	Outcome     string             `json:"outcome"`
	Description string             `json:"description"`
	Date        time.Time          `json:"date"`
	Objection   *ObjectionResponse `json:"objection,omitempty"`
}

type LeadResponse struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Company        string             `json:"company"`
	Source         string             `json:"source"`
	Status         string             `json:"status"`
	DateAdded      time.Time          `json:"dateAdded"`
	LastContacted  time.Time          `json:"lastContacted"`
	ContactHistory []ActivityResponse `json:"contactHistory"`
	Notes          []NoteResponse     `json:"notes"`
	AIScore        int                `json:"aiScore"`
	ScoreTier      string             `json:"scoreTier"`
	Hot            bool               `json:"hot"`
	ScoreFactors   map[string]float64 `json:"scoreFactors"`
	EstimatedValue float64            `json:"estimatedValue"`
	ContractValue  *float64           `json:"contractValue,omitempty"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type ActivityResultResponse struct {
	Lead          LeadResponse     `json:"lead"`
	Activity      ActivityResponse `json:"activity"`
	StatusChanged bool             `json:"statusChanged"`
	PreviousStage string           `json:"previousStatus"`
}

type StageOption struct {
	Value  string `json:"value"`
	Closed bool   `json:"closed"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type ActivityOptionsResponse struct {
	Types      []Option `json:"types"`
	Actions    []Option `json:"actions"`
	Outcomes   []Option `json:"outcomes"`
	Objections []Option `json:"objections"`
}
