package components

import (
	"strconv"

	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Effect is an invisible marker swapped in to trigger an attack animation.
// battle.js reads the data attributes and toggles the CSS classes.
func Effect(a events.Animation) gomponents.Node {
	return html.Div(
		html.ID("battle-fx"),
		html.Class("fx"),
		gomponents.Attr("hx-swap-oob", "true"),
		gomponents.Attr("data-actor", a.Actor),
		gomponents.Attr("data-attack", strconv.Itoa(a.AttackIndex)),
		gomponents.If(a.Effect != "", gomponents.Attr("data-effect", a.Effect)),
		gomponents.Attr("data-critical", strconv.FormatBool(a.Critical)),
		gomponents.Attr("data-heavy", strconv.FormatBool(a.Heavy)),
	)
}
