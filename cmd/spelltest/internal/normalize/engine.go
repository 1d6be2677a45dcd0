// Package normalize provides output normalization for golden comparisons.
package normalize

import (
	"fmt"
	"regexp"
)

// RuleSpec is the configured form of a rule, as read from spelltest.yaml.
type RuleSpec struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Replace string `mapstructure:"replace" yaml:"replace"`
}

// Rule rewrites every match of Pattern with Replace.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Engine applies rules in order to text before it is compared.
type Engine struct {
	rules []Rule
}

// NewEngine compiles the given rule specs.
func NewEngine(specs []RuleSpec) (*Engine, error) {
	engine := &Engine{}
	for i, spec := range specs {
		if spec.Pattern == "" {
			return nil, fmt.Errorf("normalize rule %d (%q): empty pattern", i, spec.Name)
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("normalize rule %d (%q): %w", i, spec.Name, err)
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i)
		}
		engine.rules = append(engine.rules, Rule{Name: name, Pattern: re, Replace: spec.Replace})
	}
	return engine, nil
}

// Len returns the number of rules.
func (e *Engine) Len() int {
	if e == nil {
		return 0
	}
	return len(e.rules)
}

// Apply rewrites text with every rule. A nil engine returns text unchanged.
func (e *Engine) Apply(text string) string {
	if e == nil {
		return text
	}
	for _, rule := range e.rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replace)
	}
	return text
}
