package topicmgr

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Hierarchical dotted names: codebattle.battle.message, ws.client.connected
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9]*)*$`)
	modulePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	reservedPrefixes       = []string{"system.", "internal.", "debug."}
	frameworkTopicPrefixes = []string{"ws.", "server."}
)

// Validator checks topic definitions before they are registered.
type Validator struct{}

// NewValidator creates a new topic validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition validates a topic definition
func (v *Validator) ValidateDefinition(topic Topic) error {
	if topic == nil {
		return fmt.Errorf("topic cannot be nil")
	}

	if err := v.ValidateName(topic.Name()); err != nil {
		return fmt.Errorf("invalid topic name: %w", err)
	}

	if strings.TrimSpace(topic.Description()) == "" {
		return fmt.Errorf("topic description cannot be empty")
	}

	if strings.TrimSpace(topic.Pattern()) == "" {
		return fmt.Errorf("topic pattern cannot be empty")
	}

	switch topic.Scope() {
	case ScopeFramework:
		if topic.Module() != "" {
			return fmt.Errorf("framework topics should not have a module")
		}
		if !hasAnyPrefix(topic.Name(), frameworkTopicPrefixes) {
			return fmt.Errorf("framework topic must start with one of %v", frameworkTopicPrefixes)
		}
	case ScopeModule:
		if err := v.validateModuleName(topic.Module()); err != nil {
			return fmt.Errorf("invalid module name: %w", err)
		}
		if !strings.HasPrefix(topic.Name(), topic.Module()+".") {
			return fmt.Errorf("module topic %q must be prefixed with its module %q", topic.Name(), topic.Module())
		}
	default:
		return fmt.Errorf("invalid topic scope: %s", topic.Scope())
	}

	return nil
}

// ValidateName checks if a topic name follows the naming convention
func (v *Validator) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > 100 {
		return fmt.Errorf("name too long (max 100 characters)")
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("name must be lowercase dot-separated segments")
	}

	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return fmt.Errorf("name cannot start with reserved prefix: %s", prefix)
		}
	}

	return nil
}

func (v *Validator) validateModuleName(module string) error {
	if strings.TrimSpace(module) == "" {
		return fmt.Errorf("module topics must specify a module")
	}
	if len(module) > 50 {
		return fmt.Errorf("module name too long (max 50 characters)")
	}
	if !modulePattern.MatchString(module) {
		return fmt.Errorf("module name must be lowercase alphanumeric with underscores")
	}
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
