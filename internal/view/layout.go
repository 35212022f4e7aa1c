package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// PageTitle handles the conditional logic for the page title.
func PageTitle(title string) string {
	if title != "" {
		return title + " - Code Battle"
	}
	return "Code Battle"
}

// Page describes a full HTML document.
type Page struct {
	Title string
	// WebSocketPath is the htmx-ws endpoint the body connects to. Empty disables it.
	WebSocketPath string
	Body          g.Node
}

// BaseLayout renders the document shell and embeds the gomponents body.
func BaseLayout(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/css/battle.css">
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"></script>
<script src="/static/js/battle.js" defer></script>
</head>
`, templ.EscapeString(PageTitle(p.Title)))
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}

		bodyOpen := "<body>\n"
		if p.WebSocketPath != "" {
			bodyOpen = fmt.Sprintf(`<body hx-ext="ws" ws-connect="%s">`+"\n", templ.EscapeString(p.WebSocketPath))
		}
		if _, err := io.WriteString(w, bodyOpen); err != nil {
			return err
		}

		if p.Body != nil {
			if err := AdaptGomponentToTempl(p.Body).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}
