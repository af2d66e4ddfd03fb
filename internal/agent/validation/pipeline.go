package validation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrRejected is returned when a validator refuses the response
var ErrRejected = errors.New("response rejected")

// Pipeline runs multiple validators in sequence
type Pipeline struct {
	validators []Validator
	logger     *zap.Logger
}

// NewPipeline creates a new validation pipeline
func NewPipeline(validators []Validator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		validators: validators,
		logger:     logger,
	}
}

// Validate runs the validators in order and stops at the first failure
func (p *Pipeline) Validate(ctx context.Context, input ValidationInput) error {
	p.logger.Debug("Validating response", zap.String("response", truncateForLog(input.Response, 100)))

	for _, v := range p.validators {
		result := v.Validate(ctx, input)
		if result.IsValid {
			continue
		}
		p.logger.Warn("Response failed validation",
			zap.String("validator", v.Name()),
			zap.String("reason", result.Reason),
		)
		return fmt.Errorf("%w by %s: %s", ErrRejected, v.Name(), result.Reason)
	}
	return nil
}
