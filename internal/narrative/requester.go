// Package narrative asks an external text-generation service for short
// crowd-safety guidance. Callers hand over a structured context and a prompt
// and get free text back; nothing here interprets the answer.
package narrative

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no narrative service is configured
var ErrDisabled = errors.New("narrative generation is not configured")

// Requester is a text-in/text-out narrative service
type Requester interface {
	Generate(ctx context.Context, structuredContext, prompt string) (string, error)
}

// Disabled is the Requester used when no API key is configured
type Disabled struct{}

// Generate always fails with ErrDisabled
func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}
