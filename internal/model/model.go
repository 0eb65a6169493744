// Package model defines the core chat and memory data types.
package model

import "time"

// MemoryType identifies which bounded collection a memory lives in.
type MemoryType string

const (
	ShortTerm MemoryType = "stm"
	LongTerm  MemoryType = "ltm"
)

// Source records how a memory was created.
type Source string

const (
	SourceChat         Source = "chat"
	SourceManual       Source = "manual"
	SourceAutoPromoted Source = "auto_promoted"
)

// Memory is a single stored observation.
type Memory struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	Keywords      []string   `json:"keywords"`
	Timestamp     time.Time  `json:"timestamp"`
	Source        Source     `json:"source"`
	AccessCount   int        `json:"accessCount"`
	Edited        bool       `json:"edited,omitempty"`
	EditTimestamp *time.Time `json:"editTimestamp,omitempty"`
}

// ScoredMemory is a memory ranked against a query.
type ScoredMemory struct {
	Memory
	RelevanceScore float64    `json:"relevanceScore"`
	Origin         MemoryType `json:"origin"`
}

// Keyword is a registry entry tracking a salient term across the session.
type Keyword struct {
	Text       string    `json:"text"`
	Count      int       `json:"count"`
	Importance float64   `json:"importance"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// Role is a chat message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the session message log.
type Message struct {
	ID            string     `json:"id"`
	Role          Role       `json:"role"`
	Content       string     `json:"content"`
	Timestamp     time.Time  `json:"timestamp"`
	PersonaID     string     `json:"personaId,omitempty"`
	Edited        bool       `json:"edited,omitempty"`
	EditTimestamp *time.Time `json:"editTimestamp,omitempty"`
	IsStreaming   bool       `json:"isStreaming,omitempty"`
	IsError       bool       `json:"isError,omitempty"`
}

// PersonaType distinguishes user-side and AI-side personas.
type PersonaType string

const (
	PersonaUser PersonaType = "user"
	PersonaAI   PersonaType = "ai"
)

// Persona describes one side of a conversation. Persona objects are owned
// by the persona registry; messages reference them by id only.
type Persona struct {
	ID        string      `json:"id"`
	Type      PersonaType `json:"type"`
	Name      string      `json:"name"`
	Age       int         `json:"age,omitempty"`
	Gender    string      `json:"gender,omitempty"`
	Backstory string      `json:"backstory,omitempty"`
	Physical  string      `json:"physical,omitempty"`
	Directive string      `json:"directive,omitempty"`
}

// PromptTurn is a single outbound request turn.
type PromptTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Settings are the generation parameters carried in session context.
type Settings struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
	Stream      bool    `json:"stream"`
}

// SessionExport is the canonical session interchange document.
type SessionExport struct {
	UserPersona *Persona  `json:"userPersona"`
	AIPersona   *Persona  `json:"aiPersona"`
	Messages    []Message `json:"messages"`
	ExportDate  time.Time `json:"exportDate"`
	TotalTokens int       `json:"totalTokens"`
	Settings    Settings  `json:"settings"`
}
