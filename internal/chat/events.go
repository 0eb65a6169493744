package chat

import "github.com/rcliao/persona-chat/internal/model"

// Events holds the optional presentation hooks the core emits into.
// Every field may be nil; dispatch is fire-and-forget and must never
// block the state machine.
type Events struct {
	// MemoryChanged fires after any memory store mutation.
	MemoryChanged func()

	// MessageAppended fires when a message lands in the log.
	MessageAppended func(msg model.Message)

	// StreamingDelta fires with the full accumulator each time a live
	// message's content is replaced.
	StreamingDelta func(messageID, content string)

	// GenerationEnded fires when a generation finishes, is cancelled,
	// or fails.
	GenerationEnded func()

	// Notify carries toast-style notices ("info", "error", ...).
	Notify func(level, message string)
}

func (e *Events) memoryChanged() {
	if e != nil && e.MemoryChanged != nil {
		e.MemoryChanged()
	}
}

func (e *Events) messageAppended(msg model.Message) {
	if e != nil && e.MessageAppended != nil {
		e.MessageAppended(msg)
	}
}

func (e *Events) streamingDelta(id, content string) {
	if e != nil && e.StreamingDelta != nil {
		e.StreamingDelta(id, content)
	}
}

func (e *Events) generationEnded() {
	if e != nil && e.GenerationEnded != nil {
		e.GenerationEnded()
	}
}

func (e *Events) notify(level, message string) {
	if e != nil && e.Notify != nil {
		e.Notify(level, message)
	}
}
