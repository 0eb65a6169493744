package memory

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/persona-chat/internal/model"
)

// promoteLength: content longer than this is considered durable.
const promoteLength = 100

// importanceFloor: registry entries above this mark a term as important.
const importanceFloor = 0.7

var emphasisWords = regexp.MustCompile(`(?i)\b(important|remember|never|always|love|hate)\b`)

// shouldPromote decides whether an observation is durable enough to be
// copied into long-term memory. Any single condition is sufficient:
// overlap with a high-importance registered keyword, length, a question
// mark, or an emphasis word. Pure predicate, no side effects.
func shouldPromote(content string, kws []string, registry []model.Keyword) bool {
	for _, k := range registry {
		if k.Importance <= importanceFloor {
			continue
		}
		for _, kw := range kws {
			if strings.Contains(k.Text, kw) {
				return true
			}
		}
	}

	if utf8.RuneCountInString(content) > promoteLength {
		return true
	}
	if strings.Contains(content, "?") {
		return true
	}
	return emphasisWords.MatchString(content)
}
