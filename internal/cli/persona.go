package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	personaCmd := &cobra.Command{
		Use:   "persona",
		Short: "Inspect personas",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List personas",
		Run:   runPersonaList,
	}
	listCmd.Flags().StringP("type", "t", "", "Filter by type: user or ai")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one persona",
		Args:  cobra.ExactArgs(1),
		Run:   runPersonaShow,
	}

	personaCmd.AddCommand(listCmd, showCmd)
	RootCmd.AddCommand(personaCmd)
}

func runPersonaList(cmd *cobra.Command, args []string) {
	typeFlag, _ := cmd.Flags().GetString("type")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	out := map[string][]model.Persona{}
	if typeFlag == "" || typeFlag == "user" {
		out["user"] = a.personas.List(model.PersonaUser)
	}
	if typeFlag == "" || typeFlag == "ai" {
		out["ai"] = a.personas.List(model.PersonaAI)
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func runPersonaShow(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	for _, typ := range []model.PersonaType{model.PersonaUser, model.PersonaAI} {
		if p, ok := a.personas.Get(args[0], typ); ok {
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return
		}
	}
	exitErr("show", fmt.Errorf("persona not found: %s", args[0]))
}
