// Package skills turns résumé text into a list of skills using an LLM.
package skills

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// UsageAction is the action name recorded for each extraction call.
const UsageAction = "skill_extraction"

// maxSkills caps how many skills are kept from one response.
const maxSkills = 25

// LLMExtractor extracts skills from résumé text with an LLM.
type LLMExtractor struct {
	provider LLMProvider
	tmpl     *template.Template
	usage    model.UsageRecorder
	logger   *slog.Logger
}

// NewLLMExtractor creates an extractor. usage may be nil.
func NewLLMExtractor(provider LLMProvider, tmpl *template.Template, usage model.UsageRecorder, logger *slog.Logger) *LLMExtractor {
	return &LLMExtractor{
		provider: provider,
		tmpl:     tmpl,
		usage:    usage,
		logger:   logger,
	}
}

// Extract returns the skills listed in resumeText. Blank text yields no
// skills and no LLM call.
func (e *LLMExtractor) Extract(ctx context.Context, resumeText string) ([]string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, nil
	}

	var promptBuf bytes.Buffer
	if err := e.tmpl.Execute(&promptBuf, struct{ Resume string }{Resume: resumeText}); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	prompt := promptBuf.String()

	raw, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.recordUsage(UsageAction+"_error", 0)
		return nil, fmt.Errorf("llm complete: %w", err)
	}
	// Token count is estimated from the prompt's word count.
	e.recordUsage(UsageAction, len(strings.Fields(prompt)))

	skills := parseSkills(raw)
	if e.logger != nil {
		e.logger.Debug("extracted skills", "count", len(skills))
	}
	return skills, nil
}

func (e *LLMExtractor) recordUsage(action string, tokens int) {
	if e.usage == nil {
		return
	}
	if err := e.usage.RecordUsage(action, tokens); err != nil && e.logger != nil {
		e.logger.Warn("failed to record api usage", "action", action, "error", err)
	}
}

// rawSkills is the JSON shape some models return instead of a plain list.
type rawSkills struct {
	Skills []string `json:"skills"`
}

// parseSkills accepts either a JSON object {"skills": [...]}, optionally
// wrapped in a markdown code fence, or a comma-separated list. Blank and
// duplicate entries are dropped; order is preserved.
func parseSkills(raw string) []string {
	text := stripCodeFence(strings.TrimSpace(raw))

	var items []string
	if strings.Contains(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		var rs rawSkills
		if end > start && json.Unmarshal([]byte(text[start:end+1]), &rs) == nil {
			items = rs.Skills
		}
	}
	if items == nil {
		items = strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == '\n'
		})
	}

	seen := make(map[string]bool, len(items))
	skills := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*•"))
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// FieldSkills splits a free-text job field into whitespace-separated terms.
// It is used when no résumé is available.
func FieldSkills(field string) []string {
	return strings.Fields(field)
}
