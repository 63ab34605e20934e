package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

func extractNames(t *testing.T, e Extractor, text string) []string {
	t.Helper()
	skills, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

func TestRuleBased_FindsCatalogSkills(t *testing.T) {
	e := NewRuleBased(registry.Default())

	names := extractNames(t, e,
		"We need strong Python and PostgreSQL experience, plus Docker and Kubernetes.")
	assert.Equal(t, []string{"Python", "PostgreSQL", "Docker", "Kubernetes"}, names)
}

func TestRuleBased_ResolvesAliases(t *testing.T) {
	e := NewRuleBased(registry.Default())

	names := extractNames(t, e, "Looking for golang developers with k8s and nodejs chops.")
	assert.Contains(t, names, "Go")
	assert.Contains(t, names, "Kubernetes")
	assert.Contains(t, names, "Node.js")
}

func TestRuleBased_MatchesMultiWordTerms(t *testing.T) {
	e := NewRuleBased(registry.Default())

	names := extractNames(t, e, "Experience with machine learning and distributed systems required.")
	assert.Contains(t, names, "Machine Learning")
	assert.Contains(t, names, "Distributed Systems")
}

func TestRuleBased_WordBoundaries(t *testing.T) {
	e := NewRuleBased(registry.Default())

	names := extractNames(t, e, "We are going places, rusty skills welcome.")
	assert.NotContains(t, names, "Go", "'going' is not Go")
	assert.NotContains(t, names, "Rust", "'rusty' is not Rust")
}

func TestRuleBased_Deduplicates(t *testing.T) {
	e := NewRuleBased(registry.Default())

	names := extractNames(t, e, "Python, python, and more Python. Also golang and Go.")
	count := map[string]int{}
	for _, n := range names {
		count[n]++
	}
	assert.Equal(t, 1, count["Python"])
	assert.Equal(t, 1, count["Go"])
}

func TestRuleBased_EmptyText(t *testing.T) {
	e := NewRuleBased(registry.Default())
	names := extractNames(t, e, "")
	assert.Empty(t, names)
}

func TestCategorize(t *testing.T) {
	reg := registry.Default()
	skills := reg.ResolveAll([]string{"Python", "Leadership", "Go", "Communication"})

	technical, soft := Categorize(skills)
	assert.Equal(t, []string{"Python", "Go"}, technical)
	assert.Equal(t, []string{"Leadership", "Communication"}, soft)

	technical, soft = Categorize(nil)
	assert.NotNil(t, technical)
	assert.NotNil(t, soft)
	assert.Empty(t, technical)
	assert.Empty(t, soft)
}

// stubLLM returns a canned response or error.
type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) GenerateJSON(context.Context, string) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Close() error { return nil }

func TestLLM_ResolvesModelAnswers(t *testing.T) {
	e := NewLLM(&stubLLM{response: `["Python", "golang", "Interpretive Dance"]`}, registry.Default())

	names := extractNames(t, e, "irrelevant")
	assert.Contains(t, names, "Python")
	assert.Contains(t, names, "Go")
	assert.NotContains(t, names, "Interpretive Dance", "unknown names are dropped")
}

func TestLLM_MergesRuleBasedMatches(t *testing.T) {
	e := NewLLM(&stubLLM{response: `["Python"]`}, registry.Default())

	names := extractNames(t, e, "Python and Kubernetes required.")
	assert.Contains(t, names, "Python")
	assert.Contains(t, names, "Kubernetes", "catalog terms the model missed still surface")
}

func TestLLM_FallsBackOnError(t *testing.T) {
	e := NewLLM(&stubLLM{err: errors.New("quota exceeded")}, registry.Default())

	names := extractNames(t, e, "Python and Docker, please.")
	assert.Contains(t, names, "Python")
	assert.Contains(t, names, "Docker")
}

func TestLLM_FallsBackOnMalformedJSON(t *testing.T) {
	e := NewLLM(&stubLLM{response: `not json at all`}, registry.Default())

	names := extractNames(t, e, "React and TypeScript wanted.")
	assert.Contains(t, names, "React")
	assert.Contains(t, names, "TypeScript")
}
