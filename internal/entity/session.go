package entity

import "time"

type ChatSession struct {
	ID        string    `db:"id" json:"session_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
