package model

import "time"

// Pool represents a versioned question pool for one license element.
type Pool struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Element   Element   `json:"element"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`

	// QuestionCount is filled by list queries, not stored.
	QuestionCount int `json:"question_count"`
}

// SubelementCount records how many questions a pool holds for one
// sub-element group (the first three characters of a question number,
// e.g. "T1A"). Exam assembly draws one random question per group.
type SubelementCount struct {
	ID       int    `json:"id"`
	PoolID   int    `json:"pool_id"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// Diagram is a figure image referenced by pool questions.
type Diagram struct {
	ID     int    `json:"id"`
	PoolID int    `json:"pool_id"`
	Name   string `json:"name"`
	Path   string `json:"path"`
}

// CreatePoolRequest is the payload for creating a question pool.
type CreatePoolRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Element   int    `json:"element" binding:"required,oneof=2 3 4"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}
