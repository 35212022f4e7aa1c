package websocket

import (
	"errors"

	"github.com/nfrund/codebattle/internal/topicmgr"
)

// Framework topics published by the bridge about client lifecycle.
var (
	// TopicClientConnected is published after a client has been registered and
	// can receive direct messages.
	TopicClientConnected = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.connected",
		Description: "A websocket client connected and is ready for direct messages",
		Pattern:     "ws.client.connected",
		Example:     `{"userID":"6f1c...","clientID":"a41e...","connectionType":"html"}`,
		Metadata: map[string]interface{}{
			"payload_fields": []string{"userID", "clientID", "connectionType"},
		},
	})

	// TopicClientDisconnected is published when a client's connection ends.
	TopicClientDisconnected = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.disconnected",
		Description: "A websocket client disconnected",
		Pattern:     "ws.client.disconnected",
		Example:     `{"userID":"6f1c...","clientID":"a41e...","connectionType":"data"}`,
		Metadata: map[string]interface{}{
			"payload_fields": []string{"userID", "clientID", "connectionType"},
		},
	})
)

// ClientEvent is the payload of the client lifecycle topics.
type ClientEvent struct {
	UserID string `json:"userID"`
	// ClientID identifies the connection, unique per socket.
	ClientID       string         `json:"clientID"`
	ConnectionType ConnectionType `json:"connectionType"`
}

// RegisterTopicsWithManager registers the bridge topics. Registering twice is not an error.
func RegisterTopicsWithManager(m *topicmgr.Manager) error {
	for _, topic := range []topicmgr.Topic{TopicClientConnected, TopicClientDisconnected} {
		if _, exists := m.Get(topic.Name()); exists {
			continue
		}
		if err := m.Register(topic); err != nil {
			var topicErr *topicmgr.TopicError
			if errors.As(err, &topicErr) && topicErr.Type == topicmgr.ErrorDuplicateRegistration {
				continue
			}
			return err
		}
	}
	return nil
}
