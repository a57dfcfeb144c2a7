package entity

import "time"

type Interaction struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	SessionID        string    `db:"session_id"`
	Message          string    `db:"message"`
	Response         string    `db:"response"`
	Intent           string    `db:"intent"`
	Confidence       float64   `db:"confidence"`
	ProcessingMethod string    `db:"processing_method"`
	ResponseTimeMs   float64   `db:"response_time_ms"`
	CreatedAt        time.Time `db:"created_at"`
}

type Feedback struct {
	ID                string    `db:"id"`
	InteractionID     string    `db:"interaction_id"`
	UserID            string    `db:"user_id"`
	Rating            int       `db:"rating"`
	Comment           string    `db:"comment"`
	CorrectedResponse string    `db:"corrected_response"`
	CreatedAt         time.Time `db:"created_at"`
}
