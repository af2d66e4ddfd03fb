package validation

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"ingechat/internal/textnorm"
)

// minEchoRunes is the shortest framing sentence worth checking for echoes
const minEchoRunes = 40

// PromptLeakValidator validates that responses don't leak the system framing
type PromptLeakValidator struct {
	sensitivePatterns []*regexp.Regexp
	// framingSentences are normalized sentences of the system instruction
	framingSentences []string
}

// NewPromptLeakValidator creates a validator that rejects replies quoting systemPrompt
func NewPromptLeakValidator(systemPrompt string) *PromptLeakValidator {
	patterns := []*regexp.Regexp{
		// only the assistant's own framing; "system instructions" alone is ordinary prose
		regexp.MustCompile(`(?i)\b(my|mi|mis)\s+(system\s*prompts?|system\s+instructions?)\b`),
		regexp.MustCompile(`(?i)\bmis\s+instrucciones\s+(del|de)\s+sistema\b`),
		regexp.MustCompile(`(?i)GEMINI_API_KEY`),
	}

	var sentences []string
	for _, s := range strings.Split(systemPrompt, ". ") {
		s = textnorm.Normalize(strings.TrimSuffix(s, "."))
		if utf8.RuneCountInString(s) >= minEchoRunes {
			sentences = append(sentences, s)
		}
	}

	return &PromptLeakValidator{
		sensitivePatterns: patterns,
		framingSentences:  sentences,
	}
}

// Name returns the validator name
func (v *PromptLeakValidator) Name() string {
	return "PromptLeakValidator"
}

// Validate checks if the response contains leaked instructions or internal information
func (v *PromptLeakValidator) Validate(_ context.Context, input ValidationInput) ValidationResult {
	for _, pattern := range v.sensitivePatterns {
		if pattern.MatchString(input.Response) {
			return Fail("potential system prompt leak detected: " + truncateForLog(pattern.FindString(input.Response), 50))
		}
	}

	normalized := textnorm.Normalize(input.Response)
	for _, sentence := range v.framingSentences {
		if strings.Contains(normalized, sentence) {
			return Fail("system instruction echoed in response")
		}
	}

	if containsPromptInjectionEcho(input.UserQuestion, input.Response) {
		return Fail("prompt injection attempt echoed in response")
	}
	return OK()
}

var injectionPhrases = []string{
	"ignora las instrucciones",
	"ignora tus instrucciones",
	"olvida tus instrucciones",
	"ignore previous",
	"ignore all previous",
	"jailbreak",
	"modo desarrollador",
	"developer mode",
}

// containsPromptInjectionEcho reports whether an injection phrase appears
// in both the user question and the response.
func containsPromptInjectionEcho(userQuestion, response string) bool {
	questionNorm := textnorm.Normalize(userQuestion)
	responseNorm := textnorm.Normalize(response)

	for _, phrase := range injectionPhrases {
		if strings.Contains(questionNorm, phrase) && strings.Contains(responseNorm, phrase) {
			return true
		}
	}
	return false
}
