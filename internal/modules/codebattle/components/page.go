package components

import (
	"github.com/nfrund/codebattle/internal/view"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Page is the body of the game page.
func Page(v ArenaView, flash view.FlashData) gomponents.Node {
	return html.Div(
		html.Class("page"),
		html.H1(html.Class("title"), gomponents.Text("CODE BATTLE")),
		Flashes(flash),
		Arena(v, false),
		html.Footer(html.Class("hint"), gomponents.Text("Pick an attack. Press Enter on the end screens to continue.")),
	)
}

// Flashes renders one-shot notices.
func Flashes(f view.FlashData) gomponents.Node {
	if len(f.Success) == 0 && len(f.Error) == 0 {
		return nil
	}
	nodes := make([]gomponents.Node, 0, len(f.Success)+len(f.Error))
	for _, msg := range f.Success {
		nodes = append(nodes, html.Div(html.Class("flash success"), gomponents.Text(msg)))
	}
	for _, msg := range f.Error {
		nodes = append(nodes, html.Div(html.Class("flash error"), gomponents.Text(msg)))
	}
	return html.Div(html.ID("flashes"), gomponents.Group(nodes))
}
