package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation sources recorded with each history row.
const (
	SourceModel       = "model"
	SourceSynthesizer = "synthesizer"
)

// QueryHistory is one generated SQL statement kept per user, append-only.
type QueryHistory struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	QueryText   string    `json:"query_text"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *QueryHistory) Prepare() {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
}
