package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	kwCmd := &cobra.Command{
		Use:   "keyword",
		Short: "Manage the keyword registry",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered keywords by importance",
		Run:   runKeywordList,
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Register a keyword or boost its importance",
		Args:  cobra.ExactArgs(1),
		Run:   runKeywordAdd,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [text]",
		Short: "Remove a keyword from the registry",
		Args:  cobra.ExactArgs(1),
		Run:   runKeywordRm,
	}

	kwCmd.AddCommand(listCmd, addCmd, rmCmd)
	RootCmd.AddCommand(kwCmd)
}

func runKeywordList(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	b, _ := json.MarshalIndent(a.memory.Keywords(), "", "  ")
	fmt.Println(string(b))
}

func runKeywordAdd(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	if err := a.memory.AddKeyword(args[0]); err != nil {
		exitErr("add", err)
	}
	fmt.Printf(`{"ok":true,"keyword":%q}`+"\n", args[0])
}

func runKeywordRm(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	if err := a.memory.DeleteKeyword(args[0]); err != nil {
		exitErr("rm", err)
	}
	fmt.Printf(`{"ok":true,"keyword":%q}`+"\n", args[0])
}
