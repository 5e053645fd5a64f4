// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"net/http"
	"time"
)

// Default endpoints for the OpenAI-compatible providers.
const (
	DefaultGatewayBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultGatewayModel   = "google/gemini-2.5-flash"
	defaultMistralBaseURL = "https://api.mistral.ai/v1"
)

// compatProvider is a named provider that speaks the OpenAI chat
// completions protocol at a different base URL. Both the LLM gateway the
// generators use by default and Mistral are served this way.
type compatProvider struct {
	inner *openAIProvider
}

func newCompat(name, defaultBaseURL, defaultModel string, cfg ProviderConfig) *compatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &compatProvider{
		inner: &openAIProvider{
			name:   name,
			config: cfg,
			client: &http.Client{Timeout: 60 * time.Second},
		},
	}
}

// newGateway creates the provider for the hosted LLM gateway.
func newGateway(cfg ProviderConfig) *compatProvider {
	return newCompat("gateway", DefaultGatewayBaseURL, DefaultGatewayModel, cfg)
}

// newMistral creates a Mistral provider.
func newMistral(cfg ProviderConfig) *compatProvider {
	return newCompat("mistral", defaultMistralBaseURL, "", cfg)
}

func (p *compatProvider) Name() string { return p.inner.name }

// Generate sends a chat completion request using the default model.
func (p *compatProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.GenerateWithModel(ctx, "", systemPrompt, userPrompt)
}

// GenerateWithModel sends a chat completion request using a specific model.
// If model is empty, the provider's default model is used.
func (p *compatProvider) GenerateWithModel(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if model == "" {
		model = p.inner.config.Model
	}
	return p.inner.doChat(ctx, openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
}
