package chatRepository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Interactions: &interactionRepository{q: sqlExecutor, log: r.log},
		Feedback:     &feedbackRepository{q: sqlExecutor, log: r.log},
		Sessions:     &sessionRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Interactions interface {
		CreateInteraction(ctx context.Context, interaction entity.Interaction) error
		GetInteractionByID(ctx context.Context, id string) (entity.Interaction, error)
	}

	Feedback interface {
		CreateFeedback(ctx context.Context, feedback entity.Feedback) error
	}

	Sessions interface {
		CreateSession(ctx context.Context, session entity.ChatSession) error
	}

	Commit   func() error
	Rollback func() error
}

type interactionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type feedbackRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type sessionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
