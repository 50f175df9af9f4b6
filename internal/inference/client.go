// Package inference is the text-in/text-out boundary to the hosted language
// model. Callers own all parsing of what comes back.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client sends system instructions plus a structured payload and returns the raw reply.
type Client interface {
	Infer(ctx context.Context, system string, payload any, opts ...CallOption) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, system string, payload any, opts ...CallOption) (string, error)

func (f ClientFunc) Infer(ctx context.Context, system string, payload any, opts ...CallOption) (string, error) {
	return f(ctx, system, payload, opts...)
}

// CallSettings are per-call generation knobs. Zero values mean the client default.
type CallSettings struct {
	MaxTokens   int
	Temperature *float64
}

type CallOption func(*CallSettings)

func WithMaxTokens(n int) CallOption {
	return func(s *CallSettings) { s.MaxTokens = n }
}

func WithTemperature(t float64) CallOption {
	return func(s *CallSettings) { s.Temperature = &t }
}

func applyOptions(defaultMaxTokens int, opts []CallOption) CallSettings {
	s := CallSettings{MaxTokens: defaultMaxTokens}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// EncodePayload renders the payload as the user message. Strings are sent as-is.
func EncodePayload(payload any) (string, error) {
	if s, ok := payload.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(data), nil
}
