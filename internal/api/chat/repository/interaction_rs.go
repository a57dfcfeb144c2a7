package chatRepository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/api/chat"
	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	contextPkg "github.com/ohmatt160/library-AI-chatbot/pkg/context"
)

func (r *interactionRepository) CreateInteraction(ctx context.Context, interaction entity.Interaction) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateInteraction, interaction)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateInteraction] failed to build query")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateInteraction] database error")
		return err
	}

	return nil
}

func (r *interactionRepository) GetInteractionByID(ctx context.Context, id string) (entity.Interaction, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetInteractionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.GetInteractionByID] failed to build query")
		return entity.Interaction{}, err
	}
	query = r.q.Rebind(query)

	var interaction entity.Interaction
	if err := r.q.GetContext(ctx, &interaction, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Interaction{}, chat.ErrInteractionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.GetInteractionByID] database error")
		return entity.Interaction{}, err
	}

	return interaction, nil
}

func (r *feedbackRepository) CreateFeedback(ctx context.Context, feedback entity.Feedback) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateFeedback, feedback)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateFeedback] failed to build query")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateFeedback] database error")
		return err
	}

	return nil
}

func (r *sessionRepository) CreateSession(ctx context.Context, session entity.ChatSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateSession, session)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateSession] failed to build query")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[chatRepository.CreateSession] database error")
		return err
	}

	return nil
}
