// Package knowledge holds the read-only local knowledge tables the chatbot
// answers from before asking the external model.
package knowledge

import (
	"sort"
	"strings"

	"ingechat/internal/model"
	"ingechat/internal/textnorm"
)

type trainingEntry struct {
	prompt     string
	completion string
}

type faqEntry struct {
	question string
	answer   string
}

// Store is an in-memory, read-only knowledge base.
// It is safe for concurrent readers since nothing mutates it after NewStore.
type Store struct {
	training   []trainingEntry
	faqs       []faqEntry
	careers    map[string]model.CareerRecord
	careerKeys []string
	facts      map[string]string
}

// Stats counts the entries of each table
type Stats struct {
	TrainingPairs int `json:"training_pairs"`
	FAQs          int `json:"faqs"`
	Careers       int `json:"careers"`
	Facts         int `json:"facts"`
}

// Empty reports whether no knowledge was loaded at all
func (s Stats) Empty() bool {
	return s == Stats{}
}

// NewStore builds the normalized tables from a dataset
func NewStore(ds model.Dataset) *Store {
	s := &Store{
		training: make([]trainingEntry, 0, len(ds.Training)),
		faqs:     make([]faqEntry, 0, len(ds.FAQs)),
		careers:  make(map[string]model.CareerRecord, len(ds.Careers)),
		facts:    make(map[string]string, len(ds.Facts)),
	}

	for _, pair := range ds.Training {
		prompt := textnorm.Normalize(pair.Prompt)
		if prompt == "" || pair.Completion == "" {
			continue
		}
		s.training = append(s.training, trainingEntry{prompt: prompt, completion: pair.Completion})
	}

	for _, faq := range ds.FAQs {
		s.faqs = append(s.faqs, faqEntry{question: textnorm.Normalize(faq.Question), answer: faq.Answer})
	}

	for _, career := range ds.Careers {
		key := textnorm.Normalize(career.Key)
		if key == "" {
			continue
		}
		career.Key = key
		s.careers[key] = career
	}
	for key := range s.careers {
		s.careerKeys = append(s.careerKeys, key)
	}
	sort.Strings(s.careerKeys)

	for topic, fact := range ds.Facts {
		s.facts[textnorm.Normalize(topic)] = fact
	}

	return s
}

// FindTrainingAnswer returns the completion of the first pair whose prompt
// equals, contains, or is contained in the query.
func (s *Store) FindTrainingAnswer(query string) (string, bool) {
	q := textnorm.Normalize(query)
	if q == "" {
		return "", false
	}
	for _, pair := range s.training {
		if q == pair.prompt || strings.Contains(pair.prompt, q) || strings.Contains(q, pair.prompt) {
			return pair.completion, true
		}
	}
	return "", false
}

// FindFAQAnswer returns the answer of the first question containing the query
func (s *Store) FindFAQAnswer(query string) (string, bool) {
	q := textnorm.Normalize(query)
	if q == "" {
		return "", false
	}
	for _, faq := range s.faqs {
		if strings.Contains(faq.question, q) {
			return faq.answer, true
		}
	}
	return "", false
}

// Career finds a career record by key, ignoring case
func (s *Store) Career(id string) (*model.CareerRecord, bool) {
	career, ok := s.careers[textnorm.Normalize(id)]
	if !ok {
		return nil, false
	}
	return &career, true
}

// InstitutionFact finds an institution fact by topic, ignoring case
func (s *Store) InstitutionFact(topic string) (string, bool) {
	fact, ok := s.facts[textnorm.Normalize(topic)]
	return fact, ok
}

// Careers returns all career records ordered by key
func (s *Store) Careers() []model.CareerRecord {
	result := make([]model.CareerRecord, 0, len(s.careerKeys))
	for _, key := range s.careerKeys {
		result = append(result, s.careers[key])
	}
	return result
}

// InstitutionFacts returns a copy of the institution facts
func (s *Store) InstitutionFacts() map[string]string {
	result := make(map[string]string, len(s.facts))
	for topic, fact := range s.facts {
		result[topic] = fact
	}
	return result
}

// Stats returns the size of each table
func (s *Store) Stats() Stats {
	return Stats{
		TrainingPairs: len(s.training),
		FAQs:          len(s.faqs),
		Careers:       len(s.careers),
		Facts:         len(s.facts),
	}
}
