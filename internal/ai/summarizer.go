// Package ai generates LLM summaries of journal entries over date ranges
// via the Anthropic API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/mhenders/worklog/internal/config"
	"github.com/mhenders/worklog/internal/entry"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

// ErrNoEntries is returned when the requested range holds no journal
// entries to summarize. No API call is made in that case.
var ErrNoEntries = errors.New("no journal entries in range")

// ErrNoAPIKey is returned when ANTHROPIC_API_KEY is not set.
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY environment variable is required")

// Summarizer produces and persists range summaries. Concurrent calls are
// bounded by a semaphore and paced by a rate limiter so a burst of web
// requests cannot stampede the API.
type Summarizer struct {
	client    *anthropic.Client
	entries   *entry.Manager
	store     storage.Store
	model     string
	maxTokens int64
	retry     RetryConfig
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
	log       *log.Logger
}

// NewSummarizer builds a Summarizer from config. The API key is read from
// ANTHROPIC_API_KEY. store may be nil (summaries are not persisted).
func NewSummarizer(cfg config.AIConfig, entries *entry.Manager, store storage.Store, logger *log.Logger) (*Summarizer, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Summarizer{
		client:    &client,
		entries:   entries,
		store:     store,
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		retry:     DefaultRetryConfig(),
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		log:       logger,
	}, nil
}

// SummarizeRange loads the range's entries, asks the model for a summary,
// stores it, and returns it.
func (s *Summarizer) SummarizeRange(ctx context.Context, start, end time.Time) (*types.Summary, error) {
	entries, err := s.entries.List(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	prompt := buildSummaryPrompt(entries, start, end)
	started := time.Now()

	var response *anthropic.Message
	err = s.retryWithBackoff(ctx, "summarization", func(attemptCtx context.Context) error {
		resp, apiErr := s.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(s.model),
			MaxTokens: s.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	s.log.Printf("ai: summarization call: input=%d tokens, output=%d tokens, duration=%v",
		response.Usage.InputTokens, response.Usage.OutputTokens, time.Since(started))

	summary := &types.Summary{
		ID:        uuid.New().String(),
		StartDate: start,
		EndDate:   end,
		Model:     s.model,
		Content:   strings.TrimSpace(text.String()),
		CreatedAt: time.Now().UTC(),
	}
	if s.store != nil {
		if err := s.store.SaveSummary(ctx, summary); err != nil {
			return nil, fmt.Errorf("failed to save summary: %w", err)
		}
	}
	return summary, nil
}

// buildSummaryPrompt assembles the model prompt from the entries' text.
func buildSummaryPrompt(entries []*types.Entry, start, end time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following work journal entries covering %s through %s.\n\n",
		start.Format(types.DateLayout), end.Format(types.DateLayout))
	b.WriteString("Produce a concise summary that covers:\n")
	b.WriteString("- Main themes and projects worked on\n")
	b.WriteString("- Concrete accomplishments\n")
	b.WriteString("- Open threads or blockers mentioned\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", e.Date.Format(types.DateLayout), strings.TrimSpace(e.Content))
	}
	return b.String()
}
