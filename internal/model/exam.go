package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exam is one candidate's exam attempt within a session. A candidate gets at
// most one exam per (session, element). Open exams accept answers and
// navigation; finishing locks the exam and queues grading.
type Exam struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"user_id"`
	SessionID    int       `json:"session_id"`
	PoolID       int       `json:"pool_id"`
	Element      Element   `json:"element"`
	Open         bool      `json:"open"`
	CurrentIndex int       `json:"current_index"`
	Score        *int      `json:"score,omitempty"`
	Passed       *bool     `json:"passed,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExamAnswer is one question slot on an exam. Answer stays nil until the
// candidate picks an option; CorrectOption is frozen at assembly time.
type ExamAnswer struct {
	ID             int       `json:"id"`
	ExamID         uuid.UUID `json:"exam_id"`
	QuestionID     int       `json:"question_id"`
	QuestionNumber int       `json:"question_number"`
	Answer         *int      `json:"answer"`
	CorrectOption  int       `json:"-"`
}

// Correct reports whether the slot was answered with the correct option.
func (a *ExamAnswer) Correct() bool {
	return a.Answer != nil && *a.Answer == a.CorrectOption
}

// GradeExam counts correct answers and applies the element threshold.
func GradeExam(answers []ExamAnswer, element Element) (score int, passed bool) {
	for i := range answers {
		if answers[i].Correct() {
			score++
		}
	}
	return score, score >= element.PassingScore() && element.Valid()
}

// ScoreString renders the score the way results pages display it,
// e.g. "Score: 26/35 (Pass)".
func ScoreString(score int, element Element) string {
	verdict := "Fail"
	if element.Valid() && score >= element.PassingScore() {
		verdict = "Pass"
	}
	return fmt.Sprintf("Score: %d/%d (%s)", score, element.QuestionCount(), verdict)
}

// NavAction is an exam navigation transition.
type NavAction string

const (
	NavBack   NavAction = "back"
	NavNext   NavAction = "next"
	NavReview NavAction = "review"
	NavStay   NavAction = "stay"
)

// NextIndex applies a navigation action to the current question index,
// clamped to [0, total). Review and stay leave the index unchanged.
func NextIndex(current int, action NavAction, total int) int {
	switch action {
	case NavBack:
		if current > 0 {
			return current - 1
		}
	case NavNext:
		if current < total-1 {
			return current + 1
		}
	}
	return current
}

// LaunchExamRequest is the payload for starting an exam attempt.
type LaunchExamRequest struct {
	SessionID int `json:"session_id" binding:"required"`
	Element   int `json:"element" binding:"required,oneof=2 3 4"`
}

// AnswerRequest is the payload for the navigation state machine: persist the
// answer for the question currently shown, then move.
type AnswerRequest struct {
	QuestionNumber int       `json:"question_number" binding:"required,min=1"`
	Answer         *int      `json:"answer" binding:"omitempty,min=0,max=3"`
	Action         NavAction `json:"action" binding:"required,oneof=back next review stay"`
}

// QuestionView is a question as shown to a candidate: no correct flag.
type QuestionView struct {
	QuestionNumber int      `json:"question_number"`
	PoolNumber     string   `json:"pool_number"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answer         *int     `json:"answer"`
	DiagramName    string   `json:"diagram_name,omitempty"`
	DiagramPath    string   `json:"diagram_path,omitempty"`
}

// ExamStateView is the candidate's view of an open exam at one position.
type ExamStateView struct {
	ExamID       uuid.UUID    `json:"exam_id"`
	Element      Element      `json:"element"`
	ExamName     string       `json:"exam_name"`
	CurrentIndex int          `json:"current_index"`
	Total        int          `json:"total"`
	Question     QuestionView `json:"question"`
}

// ReviewItem is one row of the pre-submission review summary.
type ReviewItem struct {
	QuestionNumber int  `json:"question_number"`
	Answered       bool `json:"answered"`
	Answer         *int `json:"answer,omitempty"`
}
