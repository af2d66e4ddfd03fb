// Package sanitize neutralizes instruction-like text in knowledge data
// before it is handed to the language model.
package sanitize

import (
	"regexp"
)

// instructionPatterns detects instruction-like content in career and institution data
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignora(r)?\s+(las|tus|todas\s+las)\s+instrucciones(\s+anteriores)?`),
	regexp.MustCompile(`(?i)olvida(r)?\s+(las|tus)\s+instrucciones`),
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior)\s+instructions`),
	regexp.MustCompile(`(?i)(act[uú]a|responde)\s+como\s+si\s+fueras`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+`),
	regexp.MustCompile(`(?i)(modo|mode)\s+(desarrollador|developer|debug)`),
	regexp.MustCompile(`(?i)(muestra|revela|reveal|print)\s+(tu|el|your|the)\s+(prompt|system\s+prompt|instrucci[oó]n)`),
	regexp.MustCompile(`(?i)</?\s*(system|instructions?)\s*>`),
}

// Text neutralizes instruction-like patterns by wrapping them in 【】 brackets.
// The bracketed content signals to the model that this is quoted text, not an instruction.
func Text(text string) string {
	result := text
	for _, pattern := range instructionPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return "【" + match + "】"
		})
	}
	return result
}

// Lines applies Text to every entry
func Lines(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Text(line)
	}
	return out
}
