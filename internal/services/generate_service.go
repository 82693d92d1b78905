package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"sqlgenie/internal/models"
	"sqlgenie/internal/synthesizer"
)

// Generator is the remote generation call. A nil Generator means remote
// generation is unavailable and the synthesizer handles everything.
type Generator interface {
	GenerateSQL(ctx context.Context, graph synthesizer.Graph, description string) (string, error)
}

// HistoryStore records generated queries per user.
type HistoryStore interface {
	Create(ctx context.Context, queryHistory *models.QueryHistory) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.QueryHistory, error)
}

type GenerateService struct {
	generator Generator
	history   HistoryStore
}

func NewGenerateService(generator Generator, history HistoryStore) *GenerateService {
	return &GenerateService{
		generator: generator,
		history:   history,
	}
}

// GenerateSQL prefers the remote model and falls back to the rule-based
// synthesizer on any failure, so it always produces a statement. When userID
// is set the result is appended to that user's history; a history write
// failure is logged, never surfaced.
func (s *GenerateService) GenerateSQL(ctx context.Context, userID *uuid.UUID, graph synthesizer.Graph, description string) (string, string) {
	sql, source := s.generate(ctx, graph, description)

	if userID != nil {
		entry := &models.QueryHistory{
			UserID:      *userID,
			QueryText:   sql,
			Description: description,
			Source:      source,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			log.Printf("failed to record query history for %s: %v", *userID, err)
		}
	}

	return sql, source
}

func (s *GenerateService) generate(ctx context.Context, graph synthesizer.Graph, description string) (string, string) {
	if s.generator != nil {
		sql, err := s.generator.GenerateSQL(ctx, graph, description)
		if err == nil && sql != "" {
			return sql, models.SourceModel
		}
		if err != nil {
			log.Printf("remote SQL generation failed, falling back: %v", err)
		}
	}
	return synthesizer.Synthesize(graph, description), models.SourceSynthesizer
}

func (s *GenerateService) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.QueryHistory, error) {
	return s.history.GetByUserID(ctx, userID, limit)
}
