package components

import (
	"github.com/nfrund/codebattle/internal/battle"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// BattleLog renders the visible log, oldest first.
func BattleLog(msgs []battle.Message) gomponents.Node {
	lines := make([]gomponents.Node, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, logLine(m))
	}
	return html.Div(
		html.ID("battle-messages"),
		html.Class("battle-messages"),
		gomponents.Group(lines),
	)
}

// LogLine appends one message to the log already on the page.
func LogLine(m battle.Message) gomponents.Node {
	return html.Div(
		html.ID("battle-messages"),
		gomponents.Attr("hx-swap-oob", "beforeend"),
		logLine(m),
	)
}

func logLine(m battle.Message) gomponents.Node {
	return html.Div(
		html.Class("message-line"),
		html.Div(html.Class(string(m.Category)), gomponents.Text(m.Text)),
	)
}
