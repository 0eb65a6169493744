package chat

import (
	"fmt"
	"strings"

	"github.com/rcliao/persona-chat/internal/model"
)

// recentWindow: only this many trailing messages are visible to the
// model. Older context is invisible by design.
const recentWindow = 10

// BuildPrompt assembles the outbound turn sequence: a system turn
// synthesized from the persona pair and ranked memories, the recent
// message window, then the new user turn last.
func BuildPrompt(userText string, memories []model.ScoredMemory, userP, aiP *model.Persona, recent []model.Message) []model.PromptTurn {
	turns := []model.PromptTurn{{
		Role:    model.RoleSystem,
		Content: buildSystemPrompt(userP, aiP, memories),
	}}

	window := recent
	if len(window) > recentWindow {
		window = window[len(window)-recentWindow:]
	}
	for _, m := range window {
		if m.Role == model.RoleSystem {
			continue
		}
		turns = append(turns, model.PromptTurn{Role: m.Role, Content: m.Content})
	}

	turns = append(turns, model.PromptTurn{Role: model.RoleUser, Content: userText})
	return turns
}

func buildSystemPrompt(userP, aiP *model.Persona, memories []model.ScoredMemory) string {
	var b strings.Builder

	if userP == nil || aiP == nil {
		// Graceful degradation when personas are not selected.
		b.WriteString("You are a helpful AI assistant.\n")
	} else {
		fmt.Fprintf(&b, "You are %s, %s %s.\n", aiP.Name, ageClause(aiP.Age, "an"), orDefault(aiP.Gender, "AI"))
		if aiP.Backstory != "" {
			fmt.Fprintf(&b, "Background: %s\n", aiP.Backstory)
		}
		if aiP.Physical != "" {
			fmt.Fprintf(&b, "Physical description: %s\n", aiP.Physical)
		}
		if aiP.Directive != "" {
			fmt.Fprintf(&b, "Response directive: %s\n", aiP.Directive)
		}

		fmt.Fprintf(&b, "\nYou are talking to %s, %s %s.\n", userP.Name, ageClause(userP.Age, "a"), orDefault(userP.Gender, "person"))
		if userP.Backstory != "" {
			fmt.Fprintf(&b, "User's background: %s\n", userP.Backstory)
		}
		if userP.Physical != "" {
			fmt.Fprintf(&b, "User's appearance: %s\n", userP.Physical)
		}
	}

	if len(memories) > 0 {
		b.WriteString("\nRelevant context from previous conversations:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}

	b.WriteString("\nGuidelines:\n")
	b.WriteString("1. Stay in character at all times.\n")
	b.WriteString("2. Respond naturally and conversationally.\n")
	b.WriteString("3. Reference past conversations when relevant.\n")
	b.WriteString("4. Be engaging and responsive.\n")

	return b.String()
}

func ageClause(age int, fallback string) string {
	if age > 0 {
		return fmt.Sprintf("a %d-year-old", age)
	}
	return fallback
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
