package topicmgr

import (
	"time"
)

// Topic is a registered pub/sub channel with its documentation.
type Topic interface {
	// Name returns the unique string identifier for this topic
	Name() string

	// Module returns the module that owns this topic (empty for framework topics)
	Module() string

	Description() string

	// Pattern returns the routing pattern
	Pattern() string

	// Example returns a sample payload
	Example() string

	// Metadata returns additional topic information
	Metadata() map[string]interface{}

	Scope() TopicScope
}

// TypedTopic is the concrete Topic built by DefineFramework and DefineModule.
type TypedTopic struct {
	name        string
	module      string
	description string
	pattern     string
	example     string
	metadata    map[string]interface{}
	scope       TopicScope
}

var _ Topic = (*TypedTopic)(nil)

// TopicConfig holds configuration for creating a new topic
type TopicConfig struct {
	Name        string                 `json:"name"`
	Module      string                 `json:"module"`
	Scope       TopicScope             `json:"scope"`
	Description string                 `json:"description"`
	Pattern     string                 `json:"pattern"`
	Example     string                 `json:"example"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// TopicScope defines whether a topic belongs to framework or module level
type TopicScope string

const (
	ScopeFramework TopicScope = "framework" // websocket and server plumbing
	ScopeModule    TopicScope = "module"    // module events such as codebattle.*
)

// RegistryEntry represents a topic entry in the registry with metadata
type RegistryEntry struct {
	Topic        Topic     `json:"topic"`
	RegisteredAt time.Time `json:"registered_at"`
	Module       string    `json:"module"`
}

// TopicError represents structured errors in the topic management system
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Module  string    `json:"module"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType defines the type of topic management error
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
	ErrorInvalidScope          ErrorType = "invalid_scope"
)

func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TopicError) Unwrap() error {
	return e.Cause
}

func (t *TypedTopic) Name() string        { return t.name }
func (t *TypedTopic) Module() string      { return t.module }
func (t *TypedTopic) Description() string { return t.description }
func (t *TypedTopic) Pattern() string     { return t.pattern }
func (t *TypedTopic) Example() string     { return t.example }
func (t *TypedTopic) Scope() TopicScope   { return t.scope }

// Metadata returns a copy of the topic metadata.
func (t *TypedTopic) Metadata() map[string]interface{} {
	result := make(map[string]interface{}, len(t.metadata))
	for k, v := range t.metadata {
		result[k] = v
	}
	return result
}

// String returns the topic name for easy debugging
func (t *TypedTopic) String() string {
	return t.name
}
