package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory and session statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	stats := struct {
		Memory   interface{} `json:"memory"`
		Messages int         `json:"messages"`
		Tokens   int         `json:"tokens"`
	}{
		Memory:   a.memory.Stats(),
		Messages: len(a.log.Messages()),
		Tokens:   a.log.TotalTokens(),
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
