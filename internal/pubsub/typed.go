package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/nfrund/codebattle/internal/topicmgr"
)

// Event[T] wraps a topic name and provides type-safe publishing.
type Event[T any] struct {
	topicName string
	config    topicmgr.TopicConfig
}

// NewEvent creates a typed event and auto-registers it with the Default Manager.
// The payload field names of T are recorded in the topic metadata.
func NewEvent[T any](name string, description string) Event[T] {
	config := eventConfig[T](name, description)

	// Events are declared at package level, so a failure is a programming error.
	topicmgr.Default().MustRegister(topicmgr.DefineModule(config))

	return Event[T]{
		topicName: name,
		config:    config,
	}
}

func eventConfig[T any](name, description string) topicmgr.TopicConfig {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]string, 0)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			jsonTag := t.Field(i).Tag.Get("json")
			if jsonTag == "" || jsonTag == "-" {
				continue
			}
			fieldName, _, _ := strings.Cut(jsonTag, ",")
			fields = append(fields, fieldName)
		}
	}

	// "codebattle.battle.message" belongs to module "codebattle".
	module, _, _ := strings.Cut(name, ".")

	return topicmgr.TopicConfig{
		Name:        name,
		Module:      module,
		Description: description,
		Pattern:     name,
		Metadata: map[string]interface{}{
			"payload_fields": fields,
			"type_name":      t.Name(),
			"is_typed":       true,
		},
	}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Config returns the topic definition the event was registered with.
func (e Event[T]) Config() topicmgr.TopicConfig {
	return e.config
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], payload T) error {
	return PublishFor(ctx, p, event, "", payload)
}

// PublishFor sends a typed event on behalf of, or addressed to, a single user.
func PublishFor[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		UserID:  userID,
		Payload: data,
	})
}

// Subscribe decodes every message on the event's topic into T before calling handler.
// Messages that fail to decode are reported to the subscriber as errors.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], handler func(ctx context.Context, userID string, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Name(), err)
		}
		return handler(ctx, msg.UserID, payload)
	})
}
