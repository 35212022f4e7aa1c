package components

import (
	"fmt"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// Overlay renders the end-of-battle screen for v.Screen, or an empty hidden
// overlay while fighting.
func Overlay(v ArenaView, oob bool) gomponents.Node {
	var title string
	var body []gomponents.Node
	var button gomponents.Node

	switch v.Screen {
	case events.ScreenLevelComplete:
		s := v.Snapshot
		defeated := "The opponent"
		if s.OpponentIndex > 0 && s.OpponentIndex <= len(battle.Roster()) {
			defeated = battle.Roster()[s.OpponentIndex-1].Name
		}
		body = append(body, html.Div(html.Class("highlight"), gomponents.Text(defeated+" has been defeated!")))
		if s.Opponent != nil && !s.Complete {
			if v.AutoAdvance {
				title = "VICTORY!"
				body = append(body, html.Div(html.Class("good"),
					gomponents.Text(fmt.Sprintf("VICTORY! Proceeding to %s at %s...", s.Opponent.Name, s.Opponent.Office))))
			} else {
				title = "LEVEL COMPLETE!"
				body = append(body, html.Div(html.Class("good"),
					gomponents.Text(fmt.Sprintf("Next up: %s at %s", s.Opponent.Name, s.Opponent.Office))))
				button = screenButton("continue-btn", "Continue", "/game/next", "continue")
			}
		}
	case events.ScreenGameOver:
		title = "GAME OVER"
		body = append(body,
			html.Div(html.Class("bad"), gomponents.Text(battle.PlayerName+" was defeated!")),
			html.Div(html.Class("highlight"), gomponents.Text("But the code battle continues...")),
		)
		button = screenButton("restart-btn", "Try Again", "/game/restart", "restart")
	case events.ScreenVictory:
		title = "YOU WIN!"
		body = append(body,
			html.Div(html.Class("highlight"), gomponents.Text("All coding assistants defeated!")),
			html.Div(html.Class("good"), gomponents.Text(battle.PlayerName+" has become the ultimate code warrior!")),
		)
		button = screenButton("play-again-btn", "Play Again", "/game/restart", "restart")
	default:
		return html.Div(html.ID("overlay"), html.Class("overlay hidden"), swapOOB(oob, "true"))
	}

	return html.Div(
		html.ID("overlay"),
		html.Class("overlay "+v.Screen),
		swapOOB(oob, "true"),
		html.Div(
			html.Class("overlay-panel"),
			html.H1(html.ID("overlay-title"), gomponents.Text(title)),
			html.Div(html.ID("overlay-message"), gomponents.Group(body)),
			gomponents.If(button != nil, button),
		),
	)
}

// screenButton is the single action of an end screen. data-enter lets the
// Enter key trigger it.
func screenButton(id, label, path, enter string) gomponents.Node {
	return html.Button(
		html.ID(id),
		html.Type("button"),
		html.Class("screen-btn"),
		hx.Post(path),
		hx.Swap("none"),
		gomponents.Attr("data-enter", enter),
		gomponents.Text(label),
	)
}
