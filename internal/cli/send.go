package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message and print the reply",
		Long:  "Send one message and print the reply. The message can be a positional arg or piped via stdin.",
		Run:   runSend,
	}

	RootCmd.AddCommand(cmd)
}

func runSend(cmd *cobra.Command, args []string) {
	// Message: positional arg first, then check stdin
	var message string
	if len(args) > 0 {
		message = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			message = string(b)
		}
	}

	if strings.TrimSpace(message) == "" {
		exitErr("send", fmt.Errorf("message is required (positional arg or stdin)"))
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	// Stream deltas straight to the terminal; content arrives as a
	// growing accumulator, so only print the unseen suffix.
	var printed int
	a.events.StreamingDelta = func(id, content string) {
		fmt.Print(content[printed:])
		printed = len(content)
	}

	msg, err := a.ctrl.Send(cmd.Context(), strings.TrimSpace(message))
	if err != nil {
		exitErr("send", err)
	}

	if printed < len(msg.Content) {
		fmt.Print(msg.Content[printed:])
	}
	fmt.Println()
}
