package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the session history",
		Run:   runHistory,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().IntP("limit", "l", 0, "Show only the last N messages")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	msgs := a.log.Messages()
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	if asJSON {
		b, _ := json.MarshalIndent(msgs, "", "  ")
		fmt.Println(string(b))
		return
	}

	for _, m := range msgs {
		marker := ""
		if m.Edited {
			marker = " (edited)"
		}
		if m.IsError {
			marker = " (error)"
		}
		fmt.Printf("[%s] %s%s: %s\n", m.ID, m.Role, marker, m.Content)
	}
	fmt.Printf("-- %d messages, ~%d tokens\n", len(msgs), a.log.TotalTokens())
}
