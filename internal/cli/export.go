package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the session as JSON",
		Long:  "Export the session (personas, messages, token count, settings) as JSON to stdout or a file.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	userP, _ := a.personas.Get(a.userID, model.PersonaUser)
	aiP, _ := a.personas.Get(a.aiID, model.PersonaAI)

	doc := a.log.Export(userP, aiP, a.cfg.Settings())
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		exitErr("export", err)
	}

	if len(args) == 1 {
		if err := os.WriteFile(args[0], append(b, '\n'), 0o644); err != nil {
			exitErr("export", err)
		}
		fmt.Printf(`{"ok":true,"file":%q,"messages":%d}`+"\n", args[0], len(doc.Messages))
		return
	}
	fmt.Println(string(b))
}
