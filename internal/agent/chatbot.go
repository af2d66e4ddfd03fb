package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ingechat/internal/agent/deps"
	"ingechat/internal/agent/intent"
	"ingechat/internal/agent/prompt"
	"ingechat/internal/agent/studyplan"
	"ingechat/internal/model"
	"ingechat/internal/textnorm"

	"go.uber.org/zap"
)

// Source names the tier that produced a reply
type Source string

const (
	SourceTraining    Source = "training"
	SourceFAQ         Source = "faq"
	SourceCareer      Source = "career"
	SourceInstitution Source = "institution"
	SourceExternal    Source = "external"
)

// Reply is a resolved answer plus where it came from
type Reply struct {
	Text        string      `json:"response"`
	Source      Source      `json:"source"`
	Intent      intent.Name `json:"intent,omitempty"`
	Career      string      `json:"career,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

type query struct {
	raw        string
	normalized string
}

// tier is one local resolution step; ok=false passes to the next one
type tier struct {
	source  Source
	resolve func(q query) (Reply, bool)
}

// Chatbot resolves one conversation against local knowledge first and
// delegates everything else to the external responder.
// Local tiers run without locking; access to the responder is serialized.
type Chatbot struct {
	kb        deps.KnowledgeBase
	responder deps.Responder
	logger    *zap.Logger
	tiers     []tier

	// mu guards the responder's conversation
	mu sync.Mutex
}

// NewChatbot creates a chatbot over a knowledge base and an external responder
func NewChatbot(kb deps.KnowledgeBase, responder deps.Responder, logger *zap.Logger) *Chatbot {
	c := &Chatbot{
		kb:        kb,
		responder: responder,
		logger:    logger,
	}
	c.tiers = []tier{
		{source: SourceTraining, resolve: c.resolveTraining},
		{source: SourceFAQ, resolve: c.resolveFAQ},
		{source: SourceCareer, resolve: c.resolveCareer},
		{source: SourceInstitution, resolve: c.resolveInstitution},
	}
	return c
}

// Process answers one user turn and returns the reply text
func (c *Chatbot) Process(ctx context.Context, message string) string {
	return c.Resolve(ctx, message).Text
}

// Resolve answers one user turn. It never fails: external failures
// come back as an apology text.
func (c *Chatbot) Resolve(ctx context.Context, message string) Reply {
	q := query{raw: message, normalized: textnorm.Normalize(message)}
	for _, t := range c.tiers {
		if reply, ok := t.resolve(q); ok {
			c.logResolved(reply)
			return reply
		}
	}

	reply := Reply{
		Text:   c.send(ctx, message),
		Source: SourceExternal,
	}
	c.logResolved(reply)
	return reply
}

func (c *Chatbot) send(ctx context.Context, message string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responder.Send(ctx, message)
}

// ResolveAsync runs Resolve on its own goroutine.
// The channel receives exactly one reply and is then closed.
func (c *Chatbot) ResolveAsync(ctx context.Context, message string) <-chan Reply {
	out := make(chan Reply, 1)
	go func() {
		defer close(out)
		out <- c.Resolve(ctx, message)
	}()
	return out
}

// StartNewChatSession clears the external conversation history.
// Local knowledge is unaffected.
func (c *Chatbot) StartNewChatSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.responder.ResetSession(ctx); err != nil {
		return fmt.Errorf("failed to reset chat session: %w", err)
	}
	c.logger.Info("Chat session restarted")
	return nil
}

// Close ends the external conversation. The chatbot must not be used afterwards.
func (c *Chatbot) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.responder.Close(ctx); err != nil {
		return fmt.Errorf("failed to close chat session: %w", err)
	}
	return nil
}

func (c *Chatbot) logResolved(reply Reply) {
	fields := []zap.Field{zap.String("tier", string(reply.Source))}
	if reply.Career != "" {
		fields = append(fields, zap.String("career", reply.Career))
	}
	if reply.Intent != "" {
		fields = append(fields, zap.String("intent", string(reply.Intent)))
	}
	c.logger.Info("Query resolved", fields...)
}

func (c *Chatbot) resolveTraining(q query) (Reply, bool) {
	answer, ok := c.kb.FindTrainingAnswer(q.normalized)
	if !ok {
		return Reply{}, false
	}
	return Reply{Text: answer, Source: SourceTraining}, true
}

func (c *Chatbot) resolveFAQ(q query) (Reply, bool) {
	answer, ok := c.kb.FindFAQAnswer(q.normalized)
	if !ok {
		return Reply{}, false
	}
	return Reply{Text: answer, Source: SourceFAQ}, true
}

// resolveCareer only examines the first keyword hit, even when it has no record.
func (c *Chatbot) resolveCareer(q query) (Reply, bool) {
	key, ok := intent.FirstKeyword(q.normalized)
	if !ok {
		return Reply{}, false
	}
	record, ok := c.kb.Career(key)
	if !ok {
		c.logger.Debug("Career keyword without record", zap.String("career", key))
		return Reply{}, false
	}

	sub := intent.Summary
	if rule, matched := intent.Match(intent.CareerRules, q.normalized); matched {
		sub = rule.Name
	}

	return Reply{
		Text:        careerAnswers[sub](record),
		Source:      SourceCareer,
		Intent:      sub,
		Career:      key,
		Suggestions: careerSuggestions(key, sub),
	}, true
}

// resolveInstitution evaluates only the first matching marker group.
func (c *Chatbot) resolveInstitution(q query) (Reply, bool) {
	rule, ok := intent.Match(intent.FactRules, q.normalized)
	if !ok {
		return Reply{}, false
	}
	fact, ok := c.kb.InstitutionFact(string(rule.Name))
	if !ok {
		c.logger.Debug("Institution fact not available", zap.String("topic", string(rule.Name)))
		return Reply{}, false
	}
	return Reply{Text: fact, Source: SourceInstitution, Intent: rule.Name}, true
}

var careerAnswers = map[intent.Name]func(*model.CareerRecord) string{
	intent.Plan: func(r *model.CareerRecord) string {
		if len(r.StudyPlan) == 0 {
			return fmt.Sprintf(prompt.PlanUnavailable, r.DisplayName())
		}
		return fmt.Sprintf(prompt.PlanTemplate, r.DisplayName(), studyplan.Render(r.StudyPlan))
	},
	intent.Profile: func(r *model.CareerRecord) string {
		if r.GraduateProfile == "" {
			return fmt.Sprintf(prompt.ProfileUnavailable, r.DisplayName())
		}
		return r.GraduateProfile
	},
	intent.Outlets: func(r *model.CareerRecord) string {
		outlets := strings.Join(r.ProfessionalOutlets, ", ")
		if outlets == "" {
			return fmt.Sprintf(prompt.OutletsUnavailable, r.DisplayName())
		}
		return fmt.Sprintf(prompt.OutletsTemplate, r.DisplayName(), outlets)
	},
	intent.Description: func(r *model.CareerRecord) string {
		if r.Description == "" {
			return fmt.Sprintf(prompt.DescriptionUnavailable, r.DisplayName())
		}
		return r.Description
	},
	intent.Duration: func(r *model.CareerRecord) string {
		return fmt.Sprintf(prompt.DurationTemplate, r.DisplayName(), orNotAvailable(r.Duration))
	},
	intent.Summary: func(r *model.CareerRecord) string {
		description := r.Description
		if description == "" {
			description = prompt.SummaryNoDescription
		}
		return fmt.Sprintf(prompt.SummaryTemplate, r.DisplayName(), description, orNotAvailable(r.Duration))
	},
}

func orNotAvailable(s string) string {
	if s == "" {
		return prompt.NotAvailable
	}
	return s
}

// careerFollowUps are quick replies that resolve back to a career sub-intent
var careerFollowUps = []struct {
	intent intent.Name
	format string
}{
	{intent.Plan, "Pensum de %s"},
	{intent.Profile, "Perfil del egresado de %s"},
	{intent.Outlets, "Salidas profesionales de %s"},
	{intent.Duration, "Duración de %s"},
}

func careerSuggestions(key string, answered intent.Name) []string {
	label := textnorm.Capitalize(key)
	suggestions := make([]string, 0, len(careerFollowUps))
	for _, f := range careerFollowUps {
		if f.intent == answered {
			continue
		}
		suggestions = append(suggestions, fmt.Sprintf(f.format, label))
	}
	return suggestions
}
