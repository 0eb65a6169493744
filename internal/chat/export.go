package chat

import (
	"github.com/rcliao/persona-chat/internal/model"
)

// Export produces the canonical session interchange document.
func (l *Log) Export(userP, aiP *model.Persona, settings model.Settings) *model.SessionExport {
	return &model.SessionExport{
		UserPersona: userP,
		AIPersona:   aiP,
		Messages:    l.Messages(),
		ExportDate:  l.now(),
		TotalTokens: l.totalTokens,
		Settings:    settings,
	}
}

// Import replaces the session history with an exported document and
// persists it.
func (l *Log) Import(doc *model.SessionExport) error {
	l.messages = append([]model.Message(nil), doc.Messages...)
	l.totalTokens = doc.TotalTokens
	return l.save()
}
