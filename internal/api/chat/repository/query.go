package chatRepository

const (
	queryCreateInteraction = `
		INSERT INTO chat_interactions (
			id, user_id, session_id, message, response, intent,
			confidence, processing_method, response_time_ms, created_at
		) VALUES (
			:id, :user_id, :session_id, :message, :response, :intent,
			:confidence, :processing_method, :response_time_ms, :created_at
		)
	`

	queryGetInteractionByID = `
		SELECT
			id, user_id, session_id, message, response, intent,
			confidence, processing_method, response_time_ms, created_at
		FROM chat_interactions
		WHERE id = :id
	`

	queryCreateFeedback = `
		INSERT INTO chat_feedback (
			id, interaction_id, user_id, rating, comment, corrected_response, created_at
		) VALUES (
			:id, :interaction_id, :user_id, :rating, :comment, :corrected_response, :created_at
		)
	`

	queryCreateSession = `
		INSERT INTO chat_sessions (id, user_id, created_at)
		VALUES (:id, :user_id, :created_at)
		ON CONFLICT (id) DO NOTHING
	`
)
