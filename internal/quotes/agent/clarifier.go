// Package agent hosts the LLM-backed clarification advisor. It asks one
// focused question per ambiguous line item; callers degrade to a template
// when it fails.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/internal/quotes/transport"
	"riverhawk_quote_backend/platform/ai/moonshot"
)

const clarifierAppName = "quote-clarifier"

// Clarifier generates clarifying questions for line items without a
// confident catalog match. It implements ports.QuestionAdvisor.
type Clarifier struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
}

// NewClarifier creates a tool-free clarification agent backed by Kimi.
func NewClarifier(apiKey string) (*Clarifier, error) {
	kimi := moonshot.NewModel(moonshot.Config{
		APIKey:          apiKey,
		DisableThinking: true,
	})

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "QuoteClarifier",
		Model:       kimi,
		Description: "Asks one clarifying question about an ambiguous purchase request item.",
		Instruction: clarifierSystemPrompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create clarifier agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        clarifierAppName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create clarifier runner: %w", err)
	}

	return &Clarifier{
		agent:          adkAgent,
		runner:         r,
		sessionService: sessionService,
	}, nil
}

// Ask returns one clarifying question for the item. Each call runs in its
// own throwaway session so no conversation state leaks between items and
// concurrent calls do not contend.
func (c *Clarifier) Ask(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error) {
	sessionID := uuid.New().String()
	userID := "clarifier-" + sessionID

	_, err := c.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   clarifierAppName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("clarifier: create session: %w", err)
	}
	defer func() {
		_ = c.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   clarifierAppName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{{
			Text: buildClarifierPrompt(item, candidates),
		}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var outputText strings.Builder
	for event, err := range c.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("clarifier: run failed: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			outputText.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(outputText.String()), nil
}
