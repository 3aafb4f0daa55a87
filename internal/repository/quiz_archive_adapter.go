package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quizify/internal/domain"
	"quizify/internal/repository/models"
	"quizify/internal/util"

	"github.com/jmoiron/sqlx"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS quizzes (
	id            TEXT PRIMARY KEY,
	topic         TEXT NOT NULL,
	num_requested INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS quiz_questions (
	id          TEXT PRIMARY KEY,
	quiz_id     TEXT NOT NULL REFERENCES quizzes(id),
	position    INTEGER NOT NULL,
	question    TEXT NOT NULL,
	choice_a    TEXT NOT NULL,
	choice_b    TEXT NOT NULL,
	choice_c    TEXT NOT NULL,
	choice_d    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	explanation TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz_id ON quiz_questions(quiz_id);
`

// QuizArchiveAdapter implements domain.QuizArchive using sqlx.DB
type QuizArchiveAdapter struct {
	db *sqlx.DB
}

// NewQuizArchiveAdapter creates a new instance of QuizArchiveAdapter
// and ensures the archive schema exists.
func NewQuizArchiveAdapter(db *sqlx.DB) (domain.QuizArchive, error) {
	if _, err := db.Exec(archiveSchema); err != nil {
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	return &QuizArchiveAdapter{db: db}, nil
}

// Save implements domain.QuizArchive
func (a *QuizArchiveAdapter) Save(ctx context.Context, quiz *domain.GeneratedQuiz) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO quizzes (id, topic, num_requested, created_at)
		VALUES (:id, :topic, :num_requested, :created_at)`,
		&models.Quiz{
			ID:           quiz.ID,
			Topic:        quiz.Topic,
			NumRequested: quiz.NumRequested,
			CreatedAt:    quiz.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	for i, q := range quiz.Questions {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO quiz_questions
				(id, quiz_id, position, question, choice_a, choice_b, choice_c, choice_d, answer, explanation)
			VALUES
				(:id, :quiz_id, :position, :question, :choice_a, :choice_b, :choice_c, :choice_d, :answer, :explanation)`,
			&models.QuizQuestion{
				ID:          util.NewULID(),
				QuizID:      quiz.ID,
				Position:    i,
				Question:    q.Question,
				ChoiceA:     q.ChoiceValue("A"),
				ChoiceB:     q.ChoiceValue("B"),
				ChoiceC:     q.ChoiceValue("C"),
				ChoiceD:     q.ChoiceValue("D"),
				Answer:      q.Answer,
				Explanation: q.Explanation,
			})
		if err != nil {
			return fmt.Errorf("failed to insert quiz question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

// GetByID implements domain.QuizArchive
func (a *QuizArchiveAdapter) GetByID(ctx context.Context, id string) (*domain.GeneratedQuiz, error) {
	var quizRow models.Quiz
	err := a.db.GetContext(ctx, &quizRow,
		`SELECT id, topic, num_requested, created_at FROM quizzes WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	var questionRows []models.QuizQuestion
	err = a.db.SelectContext(ctx, &questionRows,
		`SELECT id, quiz_id, position, question, choice_a, choice_b, choice_c, choice_d, answer, explanation
		 FROM quiz_questions WHERE quiz_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(questionRows))
	for _, row := range questionRows {
		question, err := domain.NewQuestion(row.Question, []domain.Choice{
			{Key: "A", Value: row.ChoiceA},
			{Key: "B", Value: row.ChoiceB},
			{Key: "C", Value: row.ChoiceC},
			{Key: "D", Value: row.ChoiceD},
		}, row.Answer, row.Explanation)
		if err != nil {
			return nil, fmt.Errorf("archived question %s is invalid: %w", row.ID, err)
		}
		questions = append(questions, question)
	}

	return &domain.GeneratedQuiz{
		ID:           quizRow.ID,
		Topic:        quizRow.Topic,
		NumRequested: quizRow.NumRequested,
		Questions:    questions,
		CreatedAt:    quizRow.CreatedAt,
	}, nil
}
