package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	memCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and manage memories",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memories",
		Run:   runMemoryList,
	}
	listCmd.Flags().StringP("type", "t", "", "Filter by type: stm or ltm")

	addCmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a memory manually",
		Long:  "Add a memory manually. Defaults to long-term; use --stm for short-term.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMemoryAdd,
	}
	addCmd.Flags().Bool("stm", false, "Store as short-term instead of long-term")
	addCmd.Flags().StringP("keywords", "k", "", "Comma-separated keywords (extracted from content when empty)")

	editCmd := &cobra.Command{
		Use:   "edit [id] [content]",
		Short: "Edit a memory",
		Args:  cobra.MinimumNArgs(2),
		Run:   runMemoryEdit,
	}
	editCmd.Flags().StringP("type", "t", "ltm", "Memory type: stm or ltm")

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runMemoryRm,
	}
	rmCmd.Flags().StringP("type", "t", "ltm", "Memory type: stm or ltm")

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank memories against a query",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMemorySearch,
	}
	searchCmd.Flags().IntP("limit", "l", 0, "Maximum results (default 5)")

	memCmd.AddCommand(listCmd, addCmd, editCmd, rmCmd, searchCmd)
	RootCmd.AddCommand(memCmd)
}

func memoryType(flag string) (model.MemoryType, error) {
	switch flag {
	case "stm":
		return model.ShortTerm, nil
	case "ltm":
		return model.LongTerm, nil
	}
	return "", fmt.Errorf("unknown memory type %q (want stm or ltm)", flag)
}

func runMemoryList(cmd *cobra.Command, args []string) {
	typeFlag, _ := cmd.Flags().GetString("type")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	out := map[string][]model.Memory{}
	if typeFlag == "" || typeFlag == "stm" {
		out["shortTerm"] = a.memory.ShortTerm()
	}
	if typeFlag == "" || typeFlag == "ltm" {
		out["longTerm"] = a.memory.LongTerm()
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func runMemoryAdd(cmd *cobra.Command, args []string) {
	stm, _ := cmd.Flags().GetBool("stm")
	keywordsStr, _ := cmd.Flags().GetString("keywords")

	target := model.LongTerm
	if stm {
		target = model.ShortTerm
	}

	var kws []string
	for _, k := range strings.Split(keywordsStr, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	mem, err := a.memory.Add(target, strings.Join(args, " "), kws)
	if err != nil {
		exitErr("add", err)
	}

	b, _ := json.Marshal(mem)
	fmt.Println(string(b))
}

func runMemoryEdit(cmd *cobra.Command, args []string) {
	typeFlag, _ := cmd.Flags().GetString("type")
	target, err := memoryType(typeFlag)
	if err != nil {
		exitErr("edit", err)
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	mem, err := a.memory.Edit(args[0], target, strings.Join(args[1:], " "))
	if err != nil {
		exitErr("edit", err)
	}

	b, _ := json.Marshal(mem)
	fmt.Println(string(b))
}

func runMemoryRm(cmd *cobra.Command, args []string) {
	typeFlag, _ := cmd.Flags().GetString("type")
	target, err := memoryType(typeFlag)
	if err != nil {
		exitErr("rm", err)
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	if err := a.memory.Delete(args[0], target); err != nil {
		exitErr("rm", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func runMemorySearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	results := a.memory.Relevant(strings.Join(args, " "), limit)
	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
