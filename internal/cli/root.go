// Package cli implements the persona-chat CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/rcliao/persona-chat/internal/chat"
	"github.com/rcliao/persona-chat/internal/config"
	"github.com/rcliao/persona-chat/internal/memory"
	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persist"
	"github.com/rcliao/persona-chat/internal/persona"
	"github.com/spf13/cobra"
)

var (
	dbPath      string
	userPersona string
	aiPersona   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "persona-chat",
	Short: "Persona-driven chat with long-term memory",
	Long:  "A chat CLI with persistent short/long-term memory and persona-driven prompts. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PERSONA_CHAT_DB or ~/.persona-chat/chat.db)")
	RootCmd.PersistentFlags().StringVarP(&userPersona, "user", "u", "", "User persona id (default: $PERSONA_CHAT_USER_PERSONA)")
	RootCmd.PersistentFlags().StringVarP(&aiPersona, "ai", "a", "", "AI persona id (default: $PERSONA_CHAT_AI_PERSONA)")
}

// app bundles the wired session components behind one Close.
type app struct {
	cfg      config.Config
	port     persist.Port
	memory   *memory.Store
	personas *persona.Registry
	log      *chat.Log
	events   *chat.Events
	ctrl     *chat.Controller

	userID string
	aiID   string
}

func openApp() (*app, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if userPersona != "" {
		cfg.UserPersonaID = userPersona
	}
	if aiPersona != "" {
		cfg.AIPersonaID = aiPersona
	}

	port, err := persist.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	mem := memory.NewStore(port)

	registry, err := persona.NewRegistry(port)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("load personas: %w", err)
	}

	// The session key reflects the configured pair; an unset pair maps to
	// the shared default session.
	sessionKey := chat.SessionKey(cfg.UserPersonaID, cfg.AIPersonaID)

	userID, aiID := cfg.UserPersonaID, cfg.AIPersonaID
	if userID == "" {
		if p, ok := registry.Default(model.PersonaUser); ok {
			userID = p.ID
		}
	}
	if aiID == "" {
		if p, ok := registry.Default(model.PersonaAI); ok {
			aiID = p.ID
		}
	}

	events := &chat.Events{}
	log := chat.NewLog(port, mem, sessionKey, events)
	client := chat.NewClient(cfg.BaseURL, cfg.Auth(), nil)
	ctrl := chat.NewController(client, mem, log, registry, events, chat.Session{
		UserPersonaID: userID,
		AIPersonaID:   aiID,
		Settings:      cfg.Settings(),
	})

	return &app{
		cfg:      cfg,
		port:     port,
		memory:   mem,
		personas: registry,
		log:      log,
		events:   events,
		ctrl:     ctrl,
		userID:   userID,
		aiID:     aiID,
	}, nil
}

func (a *app) Close() {
	a.port.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
