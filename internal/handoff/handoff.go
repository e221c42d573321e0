// Package handoff decides whether a message must be escalated to a human
// instead of answered by the model. The check runs before any retrieval or
// completion call.
package handoff

import (
	"fmt"
	"os"
	"strings"
	"sync"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/helpdeskhq/waverly/internal/crm"
)

// RuleSet is the persisted handoff configuration.
type RuleSet struct {
	Keywords          []string         `yaml:"keywords"`
	AutoHandoffTopics []string         `yaml:"auto_handoff_topics"`
	PriorityContacts  PriorityContacts `yaml:"priority_contacts"`
}

// PriorityContacts routes tagged CRM contacts straight to a human.
type PriorityContacts struct {
	Enabled bool     `yaml:"enabled"`
	Tags    []string `yaml:"tags"`
}

// DefaultRuleSet returns the built-in rules used when no rules file exists.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Keywords: []string{
			"talk to a human",
			"speak to a human",
			"human agent",
			"real person",
			"talk to someone",
			"representative",
		},
		AutoHandoffTopics: []string{
			"cancel my subscription",
			"legal notice",
			"complaint",
		},
		PriorityContacts: PriorityContacts{
			Enabled: false,
		},
	}
}

// Policy evaluates messages against a reloadable rule set.
type Policy struct {
	mu    sync.RWMutex
	rules RuleSet
	path  string
}

// NewPolicy loads rules from path. A missing file means built-in defaults;
// any other read error is returned.
func NewPolicy(path string) (*Policy, error) {
	p := &Policy{rules: DefaultRuleSet(), path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads the rules file. A missing file resets to defaults.
func (p *Policy) Reload() error {
	rules := DefaultRuleSet()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading handoff rules %s: %w", p.path, err)
		}
	} else if err := yamlv3.Unmarshal(data, &rules); err != nil {
		return fmt.Errorf("parsing handoff rules %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.rules = rules
	p.mu.Unlock()
	return nil
}

// Rules returns a copy of the current rule set.
func (p *Policy) Rules() RuleSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules
}

// ShouldHandoff reports whether the message must be escalated. Checks run
// in order (keyword, topic, priority tag) and short-circuit on the first
// match. The profile may be nil.
func (p *Policy) ShouldHandoff(message string, profile *crm.Profile) bool {
	p.mu.RLock()
	rules := p.rules
	p.mu.RUnlock()

	lower := strings.ToLower(message)

	for _, kw := range rules.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}

	for _, topic := range rules.AutoHandoffTopics {
		if topic != "" && strings.Contains(lower, strings.ToLower(topic)) {
			return true
		}
	}

	if rules.PriorityContacts.Enabled && profile != nil {
		for _, tag := range profile.Tags {
			for _, want := range rules.PriorityContacts.Tags {
				if strings.EqualFold(strings.TrimSpace(tag), strings.TrimSpace(want)) {
					return true
				}
			}
		}
	}

	return false
}
