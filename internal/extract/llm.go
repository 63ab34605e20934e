package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/techcareer-analyzer/internal/llm"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

const extractPrompt = `You are a technical recruiter's assistant. List every
professional skill mentioned in the text below. Respond with a JSON array of
skill name strings and nothing else. Use canonical names ("Go" not "golang",
"Kubernetes" not "k8s").

Text:
%s`

// LLM extracts skills with a generative model and maps the answers back onto
// the catalog. Anything the catalog does not recognize is dropped, and any
// model failure falls back to rule-based matching.
type LLM struct {
	client   llm.Client
	reg      *registry.Registry
	fallback *RuleBased
}

// NewLLM builds an LLM-backed extractor.
func NewLLM(client llm.Client, reg *registry.Registry) *LLM {
	return &LLM{client: client, reg: reg, fallback: NewRuleBased(reg)}
}

// Extract asks the model for skill names and resolves them against the
// catalog. Rule-based results are merged in so catalog terms the model
// missed still surface.
func (e *LLM) Extract(ctx context.Context, text string) ([]registry.Skill, error) {
	raw, err := e.client.GenerateJSON(ctx, fmt.Sprintf(extractPrompt, text))
	if err != nil {
		return e.fallback.Extract(ctx, text)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return e.fallback.Extract(ctx, text)
	}

	skills := e.reg.ResolveAll(names)
	ruled, _ := e.fallback.Extract(ctx, text)

	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		seen[s.ID] = true
	}
	for _, s := range ruled {
		if !seen[s.ID] {
			seen[s.ID] = true
			skills = append(skills, s)
		}
	}
	return skills, nil
}
