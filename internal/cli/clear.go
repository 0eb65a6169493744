package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the session history",
		Long:  "Clear the session history and its stored blob. Memories and keywords are kept.",
		Run:   runClear,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	n := len(a.log.Messages())
	if !yes && !confirm(fmt.Sprintf("Clear %d messages?", n)) {
		fmt.Println("aborted")
		return
	}

	if err := a.log.Clear(); err != nil {
		exitErr("clear", err)
	}
	fmt.Printf(`{"ok":true,"cleared":%d}`+"\n", n)
}
