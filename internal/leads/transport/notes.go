package transport

import "time"

type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type NoteResponse struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Date      time.Time  `json:"date"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
