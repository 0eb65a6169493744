package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a session export",
		Long:  "Import a previously exported session, replacing the current history. Reads from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		b   []byte
		err error
	)
	if len(args) == 1 {
		b, err = os.ReadFile(args[0])
	} else {
		b, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read", err)
	}

	var doc model.SessionExport
	if err := json.Unmarshal(b, &doc); err != nil {
		exitErr("import", fmt.Errorf("invalid export document: %w", err))
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	if err := a.log.Import(&doc); err != nil {
		exitErr("import", err)
	}
	fmt.Printf(`{"ok":true,"messages":%d,"totalTokens":%d}`+"\n", len(doc.Messages), doc.TotalTokens)
}
