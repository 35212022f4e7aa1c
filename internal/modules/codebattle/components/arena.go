package components

import (
	"fmt"
	"strings"

	"github.com/nfrund/codebattle/internal/battle"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// ArenaView is everything needed to draw a match.
type ArenaView struct {
	Screen      string
	AutoAdvance bool
	Snapshot    battle.Snapshot
}

// ControlsEnabled reports whether the player may pick an attack right now.
func (v ArenaView) ControlsEnabled() bool {
	return v.Snapshot.Active && v.Snapshot.State == battle.PlayerTurn
}

// Arena renders the whole battle area. With oob set it replaces the arena in
// place when pushed over the websocket.
func Arena(v ArenaView, oob bool) gomponents.Node {
	s := v.Snapshot
	opponentName, office, theme := "", "", ""
	oppHP, oppMax := 0, battle.OpponentMaxHP
	if s.Opponent != nil {
		opponentName, office, theme = s.Opponent.Name, s.Opponent.Office, s.Opponent.Theme
		oppHP, oppMax = s.Opponent.HP, s.Opponent.MaxHP
	}

	return html.Main(
		html.ID("arena"),
		html.Class("game-container"),
		swapOOB(oob, "true"),
		LevelHeader(s.Level, opponentName, office),
		html.Div(html.ID("office-background"), html.Class(OfficeClass(office))),
		html.Section(
			html.Class("battlefield"),
			html.Div(
				html.ID("player"),
				html.Class("character player cursor"),
				html.H2(html.Class("character-name"), gomponents.Text(s.Player.Name)),
				HealthBar(battle.SidePlayer, s.Player.HP, s.Player.MaxHP, false),
			),
			html.Div(html.Class("versus"), gomponents.Text("VS")),
			html.Div(
				html.ID("boss"),
				html.Class("character boss "+theme),
				html.H2(html.ID("boss-name"), html.Class("character-name"), gomponents.Text(opponentName)),
				HealthBar(battle.SideOpponent, oppHP, oppMax, false),
			),
		),
		BattleLog(s.Messages),
		Controls(s.Player.Attacks, v.ControlsEnabled(), s.Active, false),
		Overlay(v, false),
		html.Div(html.ID("battle-fx"), html.Class("fx")),
	)
}

// LevelHeader shows the level and where the fight takes place.
func LevelHeader(level int, opponent, office string) gomponents.Node {
	return html.Header(
		html.ID("level-header"),
		html.Class("level-header"),
		html.Span(gomponents.Text("Level "), html.Strong(html.ID("current-level"), gomponents.Textf("%d", level))),
		html.Span(html.ID("current-boss"), gomponents.Text(opponent)),
		html.Span(gomponents.Text("@ "), html.Span(html.ID("current-office"), gomponents.Text(office))),
	)
}

// OfficeClass is the background theme for an office, e.g. "office-background microsoft".
func OfficeClass(office string) string {
	if office == "" {
		return "office-background"
	}
	return "office-background " + strings.ToLower(strings.ReplaceAll(office, " ", "-"))
}

// HealthBar draws one side's health.
func HealthBar(side battle.Side, current, max int, oob bool) gomponents.Node {
	pct := 0
	if max > 0 {
		pct = current * 100 / max
	}
	return html.Div(
		html.ID(string(side)+"-health"),
		html.Class("health-bar"),
		swapOOB(oob, "true"),
		html.Div(
			html.Class(healthFillClass(pct)),
			gomponents.Attr("style", fmt.Sprintf("width: %d%%", pct)),
		),
		html.Span(html.Class("health-text"), gomponents.Textf("%d/%d", current, max)),
	)
}

func healthFillClass(pct int) string {
	switch {
	case pct <= 25:
		return "health-fill critical"
	case pct <= 50:
		return "health-fill low"
	default:
		return "health-fill"
	}
}

func swapOOB(oob bool, how string) gomponents.Node {
	return gomponents.If(oob, gomponents.Attr("hx-swap-oob", how))
}
