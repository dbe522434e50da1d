package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deusflow/speedread/internal/llm"
)

const (
	BulletCount = 3

	maxPromptContent = 2000
	maxTokens        = 300
	temperature      = 0.7

	systemRole = "You are an expert at creating concise, factual news summaries that avoid clickbait while still being compelling."
)

// bulletMarkers are checked in order; only the first match is stripped.
var bulletMarkers = []string{"•", "-", "*", "1.", "2.", "3."}

// Source tells which path produced a summary.
type Source int

const (
	SourceModel Source = iota
	SourceParseFallback
	SourceCallFallback
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceParseFallback:
		return "parse_fallback"
	case SourceCallFallback:
		return "call_fallback"
	default:
		return "unknown"
	}
}

// Summary always holds exactly BulletCount bullets.
type Summary struct {
	Bullets []string
	Source  Source
}

func (s Summary) IsFallback() bool {
	return s.Source != SourceModel
}

type Summarizer struct {
	llm    llm.Completer
	logger *slog.Logger
}

func New(c llm.Completer, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{llm: c, logger: logger}
}

// Summarize asks the model for three bullets. It never fails: malformed
// output and call errors both produce a title-bearing fallback.
func (s *Summarizer) Summarize(ctx context.Context, title, content string) Summary {
	text, err := s.llm.Complete(ctx, Request(title, content))
	if err != nil {
		s.logger.Warn("error generating summary", "title", title, "error", err)
		return Summary{Bullets: callFallback(title), Source: SourceCallFallback}
	}

	bullets := ParseBullets(text)
	if len(bullets) < BulletCount {
		s.logger.Warn("summary response had too few bullets", "title", title, "bullets", len(bullets))
		return Summary{Bullets: parseFallback(title), Source: SourceParseFallback}
	}
	return Summary{Bullets: bullets[:BulletCount], Source: SourceModel}
}

// Request builds the completion request for one story.
func Request(title, content string) llm.Request {
	return llm.Request{
		System:      systemRole,
		Prompt:      fmt.Sprintf(promptTemplate, title, truncate(content, maxPromptContent)),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// ParseBullets keeps lines that start with a bullet marker, marker stripped.
func ParseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(line, marker) {
				bullets = append(bullets, strings.TrimSpace(strings.TrimPrefix(line, marker)))
				break
			}
		}
	}
	return bullets
}

func parseFallback(title string) []string {
	return []string{
		"Breaking news from Boston: " + title,
		"Story developing with local impact",
		"Full details and context available at Boston.com",
	}
}

func callFallback(title string) []string {
	return []string{
		"Boston news update: " + title,
		"Local story with community impact",
		"Additional details in full article",
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

const promptTemplate = `You are creating a 3-bullet summary for a Boston news story.

STORY TITLE: %s
STORY CONTENT: %s

Create exactly 3 bullets following these rules:

BULLET 1: What happened - concrete facts, include specific numbers/names if available
BULLET 2: Key detail or impact - why this matters to Boston/locals
BULLET 3: Story-specific curiosity gap - identify something genuinely intriguing about THIS specific story that would make someone want to read more. DO NOT use generic phrases like "You won't believe", "The surprising reason", "One detail changes everything", etc. Instead, hint at specific unanswered questions, contradictions, backstories, or unexpected connections that are unique to this particular story.

Examples of GOOD bullet 3s (story-specific):
- "The restaurant's sudden closure traces back to a decades-old family feud"
- "Three city councilors changed their votes in the final 30 seconds"
- "The building's architect designed it to intentionally violate fire codes"
- "Police found evidence that contradicts the victim's own testimony"

Examples of BAD bullet 3s (generic templates):
- "You won't believe what happened next"
- "The surprising reason will shock you"
- "One detail changes everything"
- "The truth behind X will amaze you"

Be specific to THIS story. What unique, substantive detail or question would genuinely intrigue readers?

Format as three separate lines, each starting with a bullet point.`
