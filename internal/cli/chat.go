package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session",
		Long:  "Interactive chat session. Ctrl-C stops an in-flight response and keeps the partial text; /quit exits.",
		Run:   runChat,
	}

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	// Ctrl-C during generation cancels it; otherwise it exits.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			if !a.ctrl.Stop() {
				fmt.Println()
				os.Exit(0)
			}
		}
	}()

	fmt.Printf("persona-chat (%s) — /quit to exit\n", a.cfg.Model)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		var printed int
		a.events.StreamingDelta = func(id, content string) {
			fmt.Print(content[printed:])
			printed = len(content)
		}

		msg, err := a.ctrl.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if printed < len(msg.Content) {
			fmt.Print(msg.Content[printed:])
		}
		fmt.Println()
	}
}
