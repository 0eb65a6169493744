// Package keyword extracts salient terms from conversation text.
package keyword

import (
	"regexp"
	"sort"
	"strings"
)

// MaxTerms is the maximum number of terms Extract returns.
const MaxTerms = 5

// minLength: tokens this short carry no signal and are dropped.
const minLength = 4

var nonWord = regexp.MustCompile(`[^\w\s]`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "for": {}, "with": {}, "this": {},
	"have": {}, "from": {}, "they": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "your": {}, "about": {}, "would": {}, "there": {},
	"their": {}, "were": {}, "will": {}, "just": {}, "like": {},
}

// Extract returns up to MaxTerms distinct terms ranked by frequency,
// ties broken by first occurrence. It is deterministic and side-effect
// free; empty or all-stop-word input yields an empty result.
func Extract(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) < minLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxTerms {
		order = order[:MaxTerms]
	}
	return order
}
