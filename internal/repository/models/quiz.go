package models

import (
	"time"
)

// Quiz is the database row for one archived quiz-generation run.
type Quiz struct {
	ID           string    `db:"id"`
	Topic        string    `db:"topic"`
	NumRequested int       `db:"num_requested"`
	CreatedAt    time.Time `db:"created_at"`
}

// QuizQuestion is the database row for one question of an archived
// quiz. Choices are stored as four fixed columns because the domain
// invariant guarantees exactly the keys A-D.
type QuizQuestion struct {
	ID          string `db:"id"`
	QuizID      string `db:"quiz_id"`
	Position    int    `db:"position"`
	Question    string `db:"question"`
	ChoiceA     string `db:"choice_a"`
	ChoiceB     string `db:"choice_b"`
	ChoiceC     string `db:"choice_c"`
	ChoiceD     string `db:"choice_d"`
	Answer      string `db:"answer"`
	Explanation string `db:"explanation"`
}
