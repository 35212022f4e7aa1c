package components

import (
	"fmt"

	"github.com/nfrund/codebattle/internal/battle"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// HeavyAttackPower is the power above which an attack shakes the screen.
const HeavyAttackPower = 25

// attackEffects are the effect classes of the player's attacks, by index.
var attackEffects = []string{"tab-tab-tab", "cmd-knockout", "bug-battler", "agentic-assault"}

// EffectClass returns the effect class for the attack at index, or "" if
// there is none.
func EffectClass(index int) string {
	if index < 0 || index >= len(attackEffects) {
		return ""
	}
	return attackEffects[index]
}

// Controls renders the attack buttons. They are dimmed while it is not the
// player's turn and hidden once the battle is over.
func Controls(attacks []battle.Attack, enabled, visible bool, oob bool) gomponents.Node {
	class := "battle-controls"
	if !enabled {
		class += " waiting"
	}
	if !visible {
		class += " hidden"
	}

	buttons := make([]gomponents.Node, 0, len(attacks))
	for i, a := range attacks {
		buttons = append(buttons, html.Button(
			html.Type("button"),
			html.Class("attack-btn "+EffectClass(i)),
			hx.Post(fmt.Sprintf("/game/attack/%d", i)),
			hx.Swap("none"),
			gomponents.If(!enabled, html.Disabled()),
			html.Span(html.Class("attack-name"), gomponents.Text(a.Name)),
			html.Span(html.Class("attack-stats"), gomponents.Textf("PWR %d · ACC %d%%", a.Power, a.Accuracy)),
			html.Span(html.Class("attack-desc"), gomponents.Text(a.Description)),
		))
	}

	return html.Div(
		html.ID("battle-controls"),
		html.Class(class),
		swapOOB(oob, "true"),
		gomponents.Group(buttons),
	)
}
