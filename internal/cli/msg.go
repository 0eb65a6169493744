package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	msgCmd := &cobra.Command{
		Use:   "msg",
		Short: "Edit, delete or regenerate messages",
	}

	editCmd := &cobra.Command{
		Use:   "edit [id] [content]",
		Short: "Edit a message",
		Long:  "Edit a message. With --regenerate, an edited user message also replaces the assistant reply that followed it.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runMsgEdit,
	}
	editCmd.Flags().BoolP("regenerate", "r", false, "Regenerate the reply after editing a user message")

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a message and its derived memories",
		Args:  cobra.ExactArgs(1),
		Run:   runMsgRm,
	}
	rmCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	regenCmd := &cobra.Command{
		Use:   "regen [id]",
		Short: "Regenerate the reply to a user message",
		Args:  cobra.ExactArgs(1),
		Run:   runMsgRegen,
	}

	msgCmd.AddCommand(editCmd, rmCmd, regenCmd)
	RootCmd.AddCommand(msgCmd)
}

func runMsgEdit(cmd *cobra.Command, args []string) {
	regenerate, _ := cmd.Flags().GetBool("regenerate")
	id := args[0]
	content := strings.Join(args[1:], " ")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	msg, err := a.ctrl.EditMessage(cmd.Context(), id, content, regenerate)
	if err != nil {
		exitErr("edit", err)
	}

	b, _ := json.Marshal(msg)
	fmt.Println(string(b))
}

func runMsgRm(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	msg, ok := a.log.Get(args[0])
	if !ok {
		exitErr("rm", fmt.Errorf("message not found: %s", args[0]))
	}

	if !yes && !confirm(fmt.Sprintf("Delete message %q and its derived memories?", preview(msg.Content))) {
		fmt.Println("aborted")
		return
	}

	if err := a.log.Delete(args[0]); err != nil {
		exitErr("rm", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func runMsgRegen(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	var printed int
	a.events.StreamingDelta = func(id, content string) {
		fmt.Print(content[printed:])
		printed = len(content)
	}

	msg, err := a.ctrl.Regenerate(cmd.Context(), args[0])
	if err != nil {
		exitErr("regen", err)
	}
	if printed < len(msg.Content) {
		fmt.Print(msg.Content[printed:])
	}
	fmt.Println()
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > 40 {
		return string(runes[:40]) + "..."
	}
	return content
}
