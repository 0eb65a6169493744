package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/persona-chat/internal/memory"
	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persist"
)

// SessionKey derives the session identity from a persona pair. Either
// side missing collapses to the shared default session.
func SessionKey(userPersonaID, aiPersonaID string) string {
	if userPersonaID == "" || aiPersonaID == "" {
		return "default"
	}
	return userPersonaID + "_" + aiPersonaID
}

// historyBlob is the persisted shape of a session's history.
type historyBlob struct {
	Messages    []model.Message `json:"messages"`
	TotalTokens int             `json:"totalTokens"`
	Timestamp   int64           `json:"timestamp"`
}

// Log is the ordered message history for one session. It is the only
// mutation entry point for messages; edits and deletions cascade into
// the memory store.
type Log struct {
	port       persist.Port
	memory     *memory.Store
	events     *Events
	sessionKey string

	messages    []model.Message
	totalTokens int

	entropy *rand.Rand
	now     func() time.Time
}

// NewLog loads the persisted history for the given session key.
func NewLog(port persist.Port, mem *memory.Store, sessionKey string, events *Events) *Log {
	l := &Log{
		port:       port,
		memory:     mem,
		events:     events,
		sessionKey: sessionKey,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}

	value, ok, err := port.Load(persist.HistoryKey(sessionKey))
	if err != nil {
		slog.Warn("load chat history failed", "session", sessionKey, "error", err)
		return l
	}
	if !ok {
		return l
	}
	var blob historyBlob
	if err := json.Unmarshal(value, &blob); err != nil {
		slog.Warn("corrupt chat history, starting empty", "session", sessionKey, "error", err)
		return l
	}
	l.messages = blob.Messages
	l.totalTokens = blob.TotalTokens
	return l
}

// SessionKey returns the log's session identity.
func (l *Log) SessionKey() string {
	return l.sessionKey
}

func (l *Log) newID() string {
	return ulid.MustNew(ulid.Timestamp(l.now()), l.entropy).String()
}

func (l *Log) save() error {
	blob := historyBlob{
		Messages:    l.messages,
		TotalTokens: l.totalTokens,
		Timestamp:   l.now().UnixMilli(),
	}
	b, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return l.port.Save(persist.HistoryKey(l.sessionKey), b)
}

// Append adds a message to the tail of the log and persists.
func (l *Log) Append(role model.Role, content, personaID string, streaming bool) (*model.Message, error) {
	msg := model.Message{
		ID:          l.newID(),
		Role:        role,
		Content:     content,
		Timestamp:   l.now(),
		PersonaID:   personaID,
		IsStreaming: streaming,
	}
	l.messages = append(l.messages, msg)
	if err := l.save(); err != nil {
		return nil, err
	}
	l.events.messageAppended(msg)
	return &l.messages[len(l.messages)-1], nil
}

// AppendError records a failure as a visible system message. Prior
// session data is untouched.
func (l *Log) AppendError(content string) {
	msg := model.Message{
		ID:        l.newID(),
		Role:      model.RoleSystem,
		Content:   content,
		Timestamp: l.now(),
		IsError:   true,
	}
	l.messages = append(l.messages, msg)
	if err := l.save(); err != nil {
		slog.Warn("persist error message failed", "error", err)
	}
	l.events.messageAppended(msg)
}

// UpdateStreaming replaces a live message's content with the current
// accumulator. In-memory only; the finalize step persists.
func (l *Log) UpdateStreaming(id, content string) {
	for i := range l.messages {
		if l.messages[i].ID == id {
			l.messages[i].Content = content
			l.events.streamingDelta(id, content)
			return
		}
	}
}

// Finalize settles a streaming placeholder with its final content and
// persists the log.
func (l *Log) Finalize(id, content string) error {
	for i := range l.messages {
		if l.messages[i].ID != id {
			continue
		}
		l.messages[i].Content = content
		l.messages[i].IsStreaming = false
		return l.save()
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Get returns a message by id.
func (l *Log) Get(id string) (*model.Message, bool) {
	for i := range l.messages {
		if l.messages[i].ID == id {
			cp := l.messages[i]
			return &cp, true
		}
	}
	return nil, false
}

// Messages returns a copy of the full history in order.
func (l *Log) Messages() []model.Message {
	return append([]model.Message(nil), l.messages...)
}

// Recent returns up to n of the latest non-system messages, in order.
func (l *Log) Recent(n int) []model.Message {
	var recent []model.Message
	for _, m := range l.messages {
		if m.Role == model.RoleSystem {
			continue
		}
		recent = append(recent, m)
	}
	if len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	return recent
}

// Edit updates a message's content in place and persists.
func (l *Log) Edit(id, newContent string) (*model.Message, error) {
	for i := range l.messages {
		if l.messages[i].ID != id {
			continue
		}
		now := l.now()
		l.messages[i].Content = newContent
		l.messages[i].Edited = true
		l.messages[i].EditTimestamp = &now
		if err := l.save(); err != nil {
			return nil, err
		}
		cp := l.messages[i]
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes a message, cascades into the memory store via the
// content-prefix match, and walks the token estimate back down.
func (l *Log) Delete(id string) error {
	idx := -1
	for i := range l.messages {
		if l.messages[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	msg := l.messages[idx]
	if err := l.memory.RemoveByMessage(msg.Content); err != nil {
		return fmt.Errorf("cascade memory removal: %w", err)
	}

	l.messages = append(l.messages[:idx], l.messages[idx+1:]...)
	l.totalTokens -= EstimateTokens(msg.Content)
	if l.totalTokens < 0 {
		l.totalTokens = 0
	}
	return l.save()
}

// NextAssistantAfter finds the first assistant message following id.
func (l *Log) NextAssistantAfter(id string) (*model.Message, bool) {
	idx := -1
	for i := range l.messages {
		if l.messages[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}
	for _, m := range l.messages[idx+1:] {
		if m.Role == model.RoleAssistant {
			cp := m
			return &cp, true
		}
	}
	return nil, false
}

// AddTokens bumps the running token estimate and persists.
func (l *Log) AddTokens(n int) error {
	l.totalTokens += n
	return l.save()
}

// TotalTokens returns the running token estimate.
func (l *Log) TotalTokens() int {
	return l.totalTokens
}

// Clear wipes the session history and removes the persisted blob.
func (l *Log) Clear() error {
	l.messages = nil
	l.totalTokens = 0
	return l.port.Delete(persist.HistoryKey(l.sessionKey))
}

// EstimateTokens approximates token usage at 4 characters per token.
func EstimateTokens(content string) int {
	return (len(content) + 3) / 4
}
