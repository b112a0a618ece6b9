// Package enhancement rewrites listing titles and descriptions via a
// generative model call. Enhancement is strictly best-effort: an empty input
// skips the call and any failure passes the original text through unchanged.
// Nothing in this package can fail a record or a job.
package enhancement

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Razepriv/scrapperpro-fr/internal/llm"
)

// Enhancer rewrites a title/description pair.
type Enhancer struct {
	client  llm.Client
	verbose bool
}

// NewEnhancer creates an Enhancer backed by the given model client.
func NewEnhancer(client llm.Client, verbose bool) *Enhancer {
	return &Enhancer{client: client, verbose: verbose}
}

// enhancedText is the expected JSON response shape.
type enhancedText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Enhance returns the rewritten title and description. When either input is
// empty the call is skipped and the inputs are returned as-is; on any model
// failure the originals are returned with a logged warning.
func (e *Enhancer) Enhance(ctx context.Context, title, description string) (string, string) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return title, description
	}

	enhanced, err := e.enhance(ctx, title, description)
	if err != nil {
		log.Printf("Warning: enhancement failed, keeping original text: %v", err)
		return title, description
	}

	return enhanced.Title, enhanced.Description
}

func (e *Enhancer) enhance(ctx context.Context, title, description string) (*enhancedText, error) {
	prompt := buildEnhancementPrompt(title, description)

	response, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	response = llm.CleanJSONBlock(response)

	var enhanced enhancedText
	if err := json.Unmarshal([]byte(response), &enhanced); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w (content: %s)", err, response)
	}

	// A rewrite that drops either field is no rewrite at all.
	if strings.TrimSpace(enhanced.Title) == "" || strings.TrimSpace(enhanced.Description) == "" {
		return nil, fmt.Errorf("model returned empty title or description")
	}

	if e.verbose {
		log.Printf("[ENHANCE] Rewrote title %q -> %q", title, enhanced.Title)
	}

	return &enhanced, nil
}

func buildEnhancementPrompt(title, description string) string {
	var sb strings.Builder

	sb.WriteString(`You are a real-estate copywriter. Rewrite the listing title and description below so they read naturally and professionally.
Keep every factual detail (prices, sizes, counts, locations, permit numbers) exactly as given. Do not add claims the original does not make.
`)
	sb.WriteString("\nReturn ONLY valid JSON matching this exact structure:\n")
	sb.WriteString("{\n  \"title\": \"string\",\n  \"description\": \"string\"\n}\n\n")
	sb.WriteString("Original title:\n\"\"\"\n")
	sb.WriteString(title)
	sb.WriteString("\n\"\"\"\n\nOriginal description:\n\"\"\"\n")
	sb.WriteString(description)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
