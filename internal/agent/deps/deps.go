package deps

import (
	"context"

	"ingechat/internal/model"
)

// KnowledgeBase abstracts the local knowledge lookups used by the chatbot
type KnowledgeBase interface {
	FindTrainingAnswer(query string) (string, bool)
	FindFAQAnswer(query string) (string, bool)
	Career(id string) (*model.CareerRecord, bool)
	InstitutionFact(topic string) (string, bool)
}

// Responder abstracts the external generative fallback.
// Send never fails: failures surface as an apology text.
type Responder interface {
	Send(ctx context.Context, message string) string
	ResetSession(ctx context.Context) error
	// Close releases the conversation history for good
	Close(ctx context.Context) error
}

// Catalog is a KnowledgeBase that can also enumerate its contents
type Catalog interface {
	KnowledgeBase
	Careers() []model.CareerRecord
	InstitutionFacts() map[string]string
}
