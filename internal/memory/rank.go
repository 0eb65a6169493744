package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/rcliao/persona-chat/internal/keyword"
	"github.com/rcliao/persona-chat/internal/model"
)

// DefaultRankLimit is the top-K size when no limit is given.
const DefaultRankLimit = 5

// recencyWindow: memories younger than this get a flat recency boost.
const recencyWindow = 24 * time.Hour

// Relevant scores every stored memory against the query and returns the
// ranked top K. Candidates scoring zero are excluded. Neither collection
// is mutated; ties keep insertion order (short-term before long-term).
func (s *Store) Relevant(query string, limit int) []model.ScoredMemory {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	queryKeywords := keyword.Extract(query)
	now := s.now()

	var scored []model.ScoredMemory
	score := func(m model.Memory, origin model.MemoryType) {
		sc := scoreMemory(m, queryKeywords, now)
		if sc <= 0 {
			return
		}
		scored = append(scored, model.ScoredMemory{
			Memory:         m,
			RelevanceScore: sc,
			Origin:         origin,
		})
	}

	for _, m := range s.shortTerm {
		score(m, model.ShortTerm)
	}
	for _, m := range s.longTerm {
		score(m, model.LongTerm)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// scoreMemory sums: +2 per query keyword in the memory's keyword list,
// +1 per query keyword appearing in the content (both can fire for the
// same term), +1 if the memory is under 24h old, and up to +3 from the
// access count.
func scoreMemory(m model.Memory, queryKeywords []string, now time.Time) float64 {
	var score float64

	content := strings.ToLower(m.Content)
	for _, qk := range queryKeywords {
		if containsTerm(m.Keywords, qk) {
			score += 2
		}
		if strings.Contains(content, qk) {
			score += 1
		}
	}

	if score == 0 {
		return 0
	}

	if now.Sub(m.Timestamp) < recencyWindow {
		score += 1
	}

	if m.AccessCount > 0 {
		boost := float64(m.AccessCount) * 0.5
		if boost > 3 {
			boost = 3
		}
		score += boost
	}

	return score
}

func containsTerm(keywords []string, term string) bool {
	for _, k := range keywords {
		if k == term {
			return true
		}
	}
	return false
}
