// Package memory implements the bounded short-term/long-term memory
// store, the keyword registry, promotion and relevance ranking.
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/persona-chat/internal/keyword"
	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persist"
)

const (
	maxSTM      = 20
	maxLTM      = 100
	maxKeywords = 50
)

// Store owns the three memory collections. Callers never mutate them
// directly; every mutating method persists a full snapshot through the
// Port before returning.
type Store struct {
	port     persist.Port
	onChange func()

	shortTerm []model.Memory
	longTerm  []model.Memory
	keywords  []model.Keyword

	entropy *rand.Rand
	now     func() time.Time
}

// NewStore loads the persisted collections, resetting any that fail to
// decode. A corrupt blob degrades to an empty collection, never an error.
func NewStore(port persist.Port) *Store {
	s := &Store{
		port:    port,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	s.loadCollection(persist.KeySTM, &s.shortTerm)
	s.loadCollection(persist.KeyLTM, &s.longTerm)
	s.loadCollection(persist.KeyKeywords, &s.keywords)
	return s
}

// OnChange registers a hook invoked after every successful mutation.
// A nil hook is allowed.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

func (s *Store) loadCollection(key string, dst interface{}) {
	value, ok, err := s.port.Load(key)
	if err != nil {
		slog.Warn("load memory collection failed", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(value, dst); err != nil {
		slog.Warn("corrupt memory collection, resetting", "key", key, "error", err)
	}
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// save persists all three collections as one logical snapshot.
func (s *Store) save() error {
	for _, c := range []struct {
		key   string
		value interface{}
	}{
		{persist.KeySTM, s.shortTerm},
		{persist.KeyLTM, s.longTerm},
		{persist.KeyKeywords, s.keywords},
	} {
		b, err := json.Marshal(c.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.key, err)
		}
		if err := s.port.Save(c.key, b); err != nil {
			return fmt.Errorf("save %s: %w", c.key, err)
		}
	}
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// Process ingests one message's text: extracts keywords, head-inserts
// into short-term memory, copies to long-term memory when the promotion
// heuristics fire, and updates the keyword registry.
func (s *Store) Process(content string) error {
	kws := keyword.Extract(content)

	s.insert(&s.shortTerm, maxSTM, content, kws, model.SourceChat)

	if shouldPromote(content, kws, s.keywords) {
		s.insert(&s.longTerm, maxLTM, content, kws, model.SourceAutoPromoted)
	}

	s.updateKeywords(kws)
	return s.save()
}

// insert head-inserts a new memory and drops the tail past limit.
func (s *Store) insert(list *[]model.Memory, limit int, content string, kws []string, source model.Source) *model.Memory {
	mem := model.Memory{
		ID:        s.newID(),
		Content:   content,
		Keywords:  kws,
		Timestamp: s.now(),
		Source:    source,
	}
	*list = append([]model.Memory{mem}, *list...)
	if len(*list) > limit {
		*list = (*list)[:limit]
	}
	return &(*list)[0]
}

// Add stores a memory directly, bypassing the promotion policy. When no
// keywords are given they are extracted from the content.
func (s *Store) Add(target model.MemoryType, content string, kws []string) (*model.Memory, error) {
	if len(kws) == 0 {
		kws = keyword.Extract(content)
	}

	var mem *model.Memory
	switch target {
	case model.ShortTerm:
		mem = s.insert(&s.shortTerm, maxSTM, content, kws, model.SourceManual)
	case model.LongTerm:
		mem = s.insert(&s.longTerm, maxLTM, content, kws, model.SourceManual)
	default:
		return nil, fmt.Errorf("unknown memory type %q", target)
	}

	if err := s.save(); err != nil {
		return nil, err
	}
	return mem, nil
}

// Edit replaces a memory's content in place and re-derives its keywords.
func (s *Store) Edit(id string, target model.MemoryType, newContent string) (*model.Memory, error) {
	list, err := s.collection(target)
	if err != nil {
		return nil, err
	}

	for i := range *list {
		if (*list)[i].ID != id {
			continue
		}
		now := s.now()
		(*list)[i].Content = newContent
		(*list)[i].Keywords = keyword.Extract(newContent)
		(*list)[i].Edited = true
		(*list)[i].EditTimestamp = &now
		if err := s.save(); err != nil {
			return nil, err
		}
		return &(*list)[i], nil
	}
	return nil, fmt.Errorf("memory not found: %s/%s", target, id)
}

// Delete removes a memory by id from the given collection.
func (s *Store) Delete(id string, target model.MemoryType) error {
	list, err := s.collection(target)
	if err != nil {
		return err
	}

	kept := (*list)[:0]
	found := false
	for _, m := range *list {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("memory not found: %s/%s", target, id)
	}
	*list = kept
	return s.save()
}

// RemoveByMessage deletes every memory whose content contains the first
// 50 characters of the message content. The match is a deliberate
// content-prefix heuristic, not an id association; false positives are
// possible on short or duplicated content.
func (s *Store) RemoveByMessage(messageContent string) error {
	prefix := []rune(messageContent)
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	needle := string(prefix)

	filter := func(list []model.Memory) []model.Memory {
		kept := list[:0]
		for _, m := range list {
			if strings.Contains(m.Content, needle) {
				continue
			}
			kept = append(kept, m)
		}
		return kept
	}
	s.shortTerm = filter(s.shortTerm)
	s.longTerm = filter(s.longTerm)
	return s.save()
}

func (s *Store) collection(target model.MemoryType) (*[]model.Memory, error) {
	switch target {
	case model.ShortTerm:
		return &s.shortTerm, nil
	case model.LongTerm:
		return &s.longTerm, nil
	}
	return nil, fmt.Errorf("unknown memory type %q", target)
}

// updateKeywords registers extracted terms: existing entries gain count
// and importance (+0.1, capped at 1.0), new entries start at 0.5. The
// registry stays sorted by importance and capped at 50 entries.
func (s *Store) updateKeywords(kws []string) {
	now := s.now()
	for _, kw := range kws {
		if existing := s.findKeyword(kw); existing != nil {
			existing.Count++
			existing.LastUsed = now
			existing.Importance = min1(existing.Importance + 0.1)
			continue
		}
		s.keywords = append(s.keywords, model.Keyword{
			Text:       kw,
			Count:      1,
			Importance: 0.5,
			CreatedAt:  now,
			LastUsed:   now,
		})
	}
	s.sortAndCapKeywords()
}

// AddKeyword registers a term through the manual path: existing entries
// get a +0.2 importance boost, new entries start at 0.8.
func (s *Store) AddKeyword(text string) error {
	kws := keyword.Extract(text)
	if len(kws) == 0 {
		return fmt.Errorf("no usable keyword in %q", text)
	}
	now := s.now()
	for _, kw := range kws {
		if existing := s.findKeyword(kw); existing != nil {
			existing.Importance = min1(existing.Importance + 0.2)
			existing.LastUsed = now
			continue
		}
		s.keywords = append(s.keywords, model.Keyword{
			Text:       kw,
			Count:      1,
			Importance: 0.8,
			CreatedAt:  now,
			LastUsed:   now,
		})
	}
	s.sortAndCapKeywords()
	return s.save()
}

// DeleteKeyword removes a registry entry by its normalized text.
func (s *Store) DeleteKeyword(text string) error {
	kept := s.keywords[:0]
	found := false
	for _, k := range s.keywords {
		if k.Text == text {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	if !found {
		return fmt.Errorf("keyword not found: %s", text)
	}
	s.keywords = kept
	return s.save()
}

func (s *Store) findKeyword(text string) *model.Keyword {
	for i := range s.keywords {
		if s.keywords[i].Text == text {
			return &s.keywords[i]
		}
	}
	return nil
}

func (s *Store) sortAndCapKeywords() {
	// Stable: equal-importance entries keep their registration order.
	sort.SliceStable(s.keywords, func(i, j int) bool {
		return s.keywords[i].Importance > s.keywords[j].Importance
	})
	if len(s.keywords) > maxKeywords {
		s.keywords = s.keywords[:maxKeywords]
	}
}

// ShortTerm returns a copy of the short-term collection, newest first.
func (s *Store) ShortTerm() []model.Memory {
	return append([]model.Memory(nil), s.shortTerm...)
}

// LongTerm returns a copy of the long-term collection, newest first.
func (s *Store) LongTerm() []model.Memory {
	return append([]model.Memory(nil), s.longTerm...)
}

// Keywords returns a copy of the registry, highest importance first.
func (s *Store) Keywords() []model.Keyword {
	return append([]model.Keyword(nil), s.keywords...)
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
