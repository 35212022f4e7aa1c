package topicmgr

import (
	"fmt"
	"sort"
	"sync"
)

// Manager provides the main API for topic management with framework/module scoping
type Manager struct {
	registry  *Registry
	validator *Validator
}

// NewManager creates a new topic manager with registry and validator
func NewManager() *Manager {
	return &Manager{
		registry:  NewRegistry(),
		validator: NewValidator(),
	}
}

// DefineFramework creates a new typed topic for framework services
func DefineFramework(config TopicConfig) Topic {
	config.Scope = ScopeFramework
	config.Module = ""
	return newTypedTopic(config)
}

// DefineModule creates a new typed topic for modules
func DefineModule(config TopicConfig) Topic {
	config.Scope = ScopeModule
	return newTypedTopic(config)
}

func newTypedTopic(config TopicConfig) *TypedTopic {
	return &TypedTopic{
		name:        config.Name,
		module:      config.Module,
		description: config.Description,
		pattern:     config.Pattern,
		example:     config.Example,
		metadata:    config.Metadata,
		scope:       config.Scope,
	}
}

// Register validates a topic and adds it to the registry.
func (m *Manager) Register(topic Topic) error {
	if err := m.validator.ValidateDefinition(topic); err != nil {
		name, module := "", ""
		if topic != nil {
			name, module = topic.Name(), topic.Module()
		}
		return &TopicError{
			Type:    ErrorValidationFailed,
			Topic:   name,
			Module:  module,
			Message: "topic validation failed",
			Cause:   err,
		}
	}

	return m.registry.Register(topic)
}

// MustRegister registers a topic and panics on error (for static initialization)
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil {
		panic(fmt.Sprintf("failed to register topic %s: %v", topic.Name(), err))
	}
}

// Get retrieves a topic by name
func (m *Manager) Get(name string) (Topic, bool) {
	return m.registry.Get(name)
}

// List returns all registered topics
func (m *Manager) List() []Topic {
	return m.registry.List()
}

// ListByModule returns topics for a specific module
func (m *Manager) ListByModule(module string) []Topic {
	return m.registry.ListByModule(module)
}

// ListByScope returns topics for a specific scope (framework or module)
func (m *Manager) ListByScope(scope TopicScope) []Topic {
	return m.registry.ListByScope(scope)
}

// ListModules returns all unique module names that have registered topics
func (m *Manager) ListModules() []string {
	seen := make(map[string]bool)
	for _, topic := range m.registry.ListByScope(ScopeModule) {
		seen[topic.Module()] = true
	}

	modules := make([]string, 0, len(seen))
	for module := range seen {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// ValidateTopicName checks if a topic name is valid without creating a topic
func (m *Manager) ValidateTopicName(name string) error {
	return m.validator.ValidateName(name)
}

// Count returns the total number of registered topics
func (m *Manager) Count() int {
	return m.registry.Count()
}

// Reset removes all registered topics (primarily for testing)
func (m *Manager) Reset() {
	m.registry.Reset()
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide manager that pubsub.NewEvent registers into.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
