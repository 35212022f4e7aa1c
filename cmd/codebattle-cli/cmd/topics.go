package cmd

import (
	"fmt"
	"strings"

	"github.com/nfrund/codebattle/cmd/codebattle-cli/internal/format"
	_ "github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/nfrund/codebattle/internal/topicmgr"
	"github.com/nfrund/codebattle/internal/websocket"
	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listModuleFilter string
	listScopeFilter  string
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Explore the pub/sub topics",
	Long: `Battle events travel over typed pub/sub topics between the engine, the
renderer and the websocket bridge. These commands show what is registered.

Examples:
  codebattle-cli topics list
  codebattle-cli topics list --module codebattle
  codebattle-cli topics list --scope framework --format json`,
}

// topicsListCmd represents the topics list command
var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := topicmgr.Default()
		if err := websocket.RegisterTopicsWithManager(manager); err != nil {
			return fmt.Errorf("register websocket topics: %w", err)
		}

		var topicList []topicmgr.Topic
		switch {
		case listModuleFilter != "":
			topicList = manager.ListByModule(listModuleFilter)
		default:
			topicList = manager.List()
		}

		if listScopeFilter != "" {
			scope := parseScope(listScopeFilter)
			if scope == "" {
				return fmt.Errorf("invalid scope %q, valid scopes: framework, module", listScopeFilter)
			}
			var filtered []topicmgr.Topic
			for _, topic := range topicList {
				if topic.Scope() == scope {
					filtered = append(filtered, topic)
				}
			}
			topicList = filtered
		}

		out := cmd.OutOrStdout()
		switch listOutputFormat {
		case "json":
			return format.TopicsJSON(out, topicList)
		case "table":
			if len(topicList) == 0 {
				fmt.Fprintln(out, "No topics found")
				return nil
			}
			format.TopicsTable(out, topicList)
			return nil
		default:
			return fmt.Errorf("unsupported output format %q, use table or json", listOutputFormat)
		}
	},
}

// parseScope converts string scope to topicmgr.TopicScope
func parseScope(scopeStr string) topicmgr.TopicScope {
	switch strings.ToLower(scopeStr) {
	case "framework":
		return topicmgr.ScopeFramework
	case "module":
		return topicmgr.ScopeModule
	default:
		return ""
	}
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	topicsListCmd.Flags().StringVarP(&listModuleFilter, "module", "m", "", "Filter topics by module name")
	topicsListCmd.Flags().StringVarP(&listScopeFilter, "scope", "s", "", "Filter topics by scope (framework, module)")
}
