package prompt

import "strings"

// Builder constructs the system framing for the external responder
type Builder struct {
	persona string
}

// NewBuilder creates a prompt builder. An empty persona keeps DefaultPersona.
func NewBuilder(persona string) *Builder {
	return &Builder{persona: strings.TrimSpace(persona)}
}

// BuildSystemPrompt returns the instruction sent with every external call.
// The persona is configurable; the domain restriction is not.
func (b *Builder) BuildSystemPrompt() string {
	if b.persona == "" {
		return SystemInstruction
	}
	return b.persona + " " + DomainRestriction
}
