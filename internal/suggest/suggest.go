// Package suggest asks a text generator to fill the open days of a weekly
// meal plan from the recipes the server already knows.
package suggest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"recipe-planner/internal/llm"
	"recipe-planner/internal/session"
	"recipe-planner/internal/week"
)

// AgentName labels suggestion calls in the metrics store.
const AgentName = "Suggester"

// ErrNoRecipes is returned when there is nothing to choose from.
var ErrNoRecipes = errors.New("no recipes available to suggest from")

//go:embed prompt.md
var promptText string

var promptTmpl = template.Must(template.New("suggest").Parse(promptText))

// Request describes what to fill.
type Request struct {
	Recipes  []string
	Open     []week.Day
	Assigned []session.Assignment
	Note     string
}

// Suggestion is one proposed assignment.
type Suggestion struct {
	Day    week.Day
	Recipe string
	Note   string
}

// Meta holds operational metadata for a generator call.
type Meta struct {
	AgentName string
	Usage     llm.TokenUsage
	Latency   time.Duration
}

// Result is what Suggest returns. Meta is set whenever the generator was
// called, even if the answer could not be used.
type Result struct {
	Suggestions []Suggestion
	Meta        Meta
}

// Suggester handles the generation of suggestions.
type Suggester struct {
	textGen llm.TextGenerator
}

// New creates a new Suggester instance.
func New(textGen llm.TextGenerator) *Suggester {
	return &Suggester{textGen: textGen}
}

type promptData struct {
	Note     string
	Recipes  []string
	Assigned []session.Assignment
	Days     []string
}

type answer struct {
	Plan []struct {
		Day    string `json:"day"`
		Recipe string `json:"recipe"`
		Note   string `json:"note"`
	} `json:"plan"`
}

// Suggest proposes recipes for the open days of req. Answers naming other
// days or unknown recipes are dropped.
func (s *Suggester) Suggest(ctx context.Context, req Request) (Result, error) {
	if len(req.Recipes) == 0 {
		return Result{}, ErrNoRecipes
	}
	if len(req.Open) == 0 {
		return Result{}, nil
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate suggestions: %w", err)
	}
	result := Result{Meta: Meta{AgentName: AgentName, Usage: resp.Usage, Latency: time.Since(start)}}

	var a answer
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &a); err != nil {
		return result, fmt.Errorf("failed to parse suggestions %w: %s", err, resp.Content)
	}

	known := make(map[string]string, len(req.Recipes))
	for _, name := range req.Recipes {
		known[strings.ToLower(strings.TrimSpace(name))] = name
	}
	open := make(map[week.Day]bool, len(req.Open))
	for _, d := range req.Open {
		open[d] = true
	}

	for _, p := range a.Plan {
		day, err := week.Parse(p.Day)
		if err != nil || !open[day] {
			continue
		}
		name, ok := known[strings.ToLower(strings.TrimSpace(p.Recipe))]
		if !ok {
			continue
		}
		open[day] = false
		result.Suggestions = append(result.Suggestions, Suggestion{Day: day, Recipe: name, Note: strings.TrimSpace(p.Note)})
	}
	return result, nil
}

func buildPrompt(req Request) (string, error) {
	data := promptData{Note: strings.TrimSpace(req.Note), Recipes: req.Recipes}
	for _, a := range req.Assigned {
		if !a.Empty() {
			data.Assigned = append(data.Assigned, a)
		}
	}
	for _, d := range req.Open {
		data.Days = append(data.Days, d.String())
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractJSON strips markdown fences some models wrap around JSON answers.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndex(s, "}"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}
	return s
}
