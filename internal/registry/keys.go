package registry

import (
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/topicmgr"
	"github.com/nfrund/codebattle/internal/websocket"
)

// Keys for the core services the server registers before booting modules.
const (
	PublisherKey    Key[pubsub.Publisher]   = "core.pubsub.Publisher"
	SubscriberKey   Key[pubsub.Subscriber]  = "core.pubsub.Subscriber"
	RendererKey     Key[rendering.Renderer] = "core.rendering.Renderer"
	TopicManagerKey Key[*topicmgr.Manager]  = "core.topicmgr.Manager"
	BridgeKey       Key[*websocket.Bridge]  = "core.websocket.Bridge"
)
