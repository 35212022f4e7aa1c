// Package format renders CLI output as tables or JSON.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/topicmgr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title turns identifiers like "player_turn" into "Player Turn".
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// RosterTable writes the opponents in level order followed by the player's attacks.
func RosterTable(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tOPPONENT\tOFFICE\tHP\tSPECIAL ABILITIES")
	fmt.Fprintln(w, "-----\t--------\t------\t--\t-----------------")
	for i, opp := range battle.Roster() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, opp.Name, opp.Office, opp.MaxHP, strings.Join(opp.SpecialAbilities, ", "))
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATTACK\tPOWER\tACCURACY\tDESCRIPTION")
	fmt.Fprintln(w, "------\t-----\t--------\t-----------")
	for _, a := range battle.PlayerAttacks() {
		fmt.Fprintf(w, "%s\t%d\t%d%%\t%s\n", a.Name, a.Power, a.Accuracy, a.Description)
	}
	w.Flush()
}

// RosterJSON writes the roster and attacks as one JSON document.
func RosterJSON(out io.Writer) error {
	doc := struct {
		Opponents []*battle.Opponent `json:"opponents"`
		Attacks   []battle.Attack    `json:"attacks"`
	}{
		Opponents: battle.Roster(),
		Attacks:   battle.PlayerAttacks(),
	}
	return encode(out, doc)
}

// TopicDisplay represents a topic for display purposes
type TopicDisplay struct {
	Name        string                 `json:"name"`
	Scope       string                 `json:"scope"`
	Module      string                 `json:"module"`
	Description string                 `json:"description"`
	Pattern     string                 `json:"pattern"`
	Example     string                 `json:"example"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// TopicsTable displays topics in a formatted table
func TopicsTable(out io.Writer, topics []topicmgr.Topic) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tSCOPE\tMODULE\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-----\t------\t-----------")
	for _, topic := range topics {
		module := topic.Module()
		if module == "" {
			module = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", topic.Name(), topic.Scope(), module, truncate(topic.Description(), 50))
	}
}

// TopicsJSON displays topics in JSON format
func TopicsJSON(out io.Writer, topics []topicmgr.Topic) error {
	displays := make([]TopicDisplay, len(topics))
	for i, topic := range topics {
		displays[i] = TopicDisplay{
			Name:        topic.Name(),
			Scope:       string(topic.Scope()),
			Module:      topic.Module(),
			Description: topic.Description(),
			Pattern:     topic.Pattern(),
			Example:     topic.Example(),
			Metadata:    topic.Metadata(),
		}
	}
	return encode(out, struct {
		Topics []TopicDisplay `json:"topics"`
		Count  int            `json:"count"`
	}{displays, len(displays)})
}

func encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
