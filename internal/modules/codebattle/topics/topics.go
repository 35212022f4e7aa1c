package topics

import (
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/pubsub"
)

// Module topics for Code Battle. Every event is addressed to one player
// through the message UserID.
var (
	// TopicMessage is published for every battle log line
	TopicMessage = pubsub.NewEvent[events.Message]("codebattle.battle.message", "A line was appended to the battle log")

	// TopicHealth is published when a health bar must be redrawn
	TopicHealth = pubsub.NewEvent[events.Health]("codebattle.battle.health", "A combatant's health changed")

	// TopicAnimation is published when either side attacks
	TopicAnimation = pubsub.NewEvent[events.Animation]("codebattle.battle.animation", "An attack animation should play")

	// TopicTurn is published when the turn passes or the battle ends
	TopicTurn = pubsub.NewEvent[events.Turn]("codebattle.battle.turn", "The active turn changed")

	// TopicScreen is published when the visible screen changes and on resync
	TopicScreen = pubsub.NewEvent[events.Screen]("codebattle.battle.screen", "The match screen changed, with a full state snapshot")

	// TopicCommand carries player input from websocket data clients
	TopicCommand = pubsub.NewEvent[events.Command]("codebattle.command", "Player input received over a websocket connection")
)
