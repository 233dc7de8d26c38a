package models

import "time"

const (
	DefaultNoteTitle = "Untitled Note"
	DefaultNoteColor = "#1e293b"
)

// Note — заметка пользователя. Владение такое же как у Project.
type Note struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Note) OwnerID() string { return n.UserID }
