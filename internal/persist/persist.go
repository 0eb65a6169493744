// Package persist provides the named-blob persistence port and its
// SQLite and in-memory implementations.
package persist

// Well-known blob keys used by the core.
const (
	KeySTM          = "memory_stm"
	KeyLTM          = "memory_ltm"
	KeyKeywords     = "memory_keywords"
	KeyPersonasUser = "personas_user"
	KeyPersonasAI   = "personas_ai"
)

// HistoryKey returns the blob key for a session's chat history.
func HistoryKey(sessionKey string) string {
	return "chat_history_" + sessionKey
}

// Port is the persistence interface the core writes through. Every
// mutating core method saves its full state before returning, so a Port
// only ever sees complete snapshots.
type Port interface {
	// Load returns the blob stored under key, or ok=false if absent.
	Load(key string) (value []byte, ok bool, err error)

	// Save stores the blob under key, replacing any previous value.
	Save(key string, value []byte) error

	// Delete removes the blob under key. Deleting an absent key is not
	// an error.
	Delete(key string) error

	// Close releases any underlying resources.
	Close() error
}
