package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persist"
)

func newTestStore(t *testing.T) (*Store, *persist.MapStore) {
	t.Helper()
	port := persist.NewMapStore()
	return NewStore(port), port
}

func TestProcessCapsShortTerm(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 30; i++ {
		if err := s.Process(fmt.Sprintf("observation number %d about nothing", i)); err != nil {
			t.Fatalf("process: %v", err)
		}
		if got := len(s.ShortTerm()); got > 20 {
			t.Fatalf("short-term memory exceeded cap: %d", got)
		}
	}

	if got := len(s.ShortTerm()); got != 20 {
		t.Errorf("expected 20 short-term memories, got %d", got)
	}
}

func TestEvictionIsFIFO(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 21; i++ {
		s.Process(fmt.Sprintf("entry %04d marker", i))
	}

	stm := s.ShortTerm()
	if len(stm) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(stm))
	}
	// Newest first: head is entry 20, and the original entry 0 is gone.
	if stm[0].Content != "entry 0020 marker" {
		t.Errorf("expected newest at head, got %q", stm[0].Content)
	}
	for _, m := range stm {
		if m.Content == "entry 0000 marker" {
			t.Error("oldest entry should have been evicted")
		}
	}
	if stm[len(stm)-1].Content != "entry 0001 marker" {
		t.Errorf("expected entry 1 at tail, got %q", stm[len(stm)-1].Content)
	}
}

func TestLongTermCap(t *testing.T) {
	s, _ := newTestStore(t)

	// Question mark forces promotion on every call.
	for i := 0; i < 110; i++ {
		s.Process(fmt.Sprintf("will you recall item %d?", i))
		if got := len(s.LongTerm()); got > 100 {
			t.Fatalf("long-term memory exceeded cap: %d", got)
		}
	}
	if got := len(s.LongTerm()); got != 100 {
		t.Errorf("expected 100 long-term memories, got %d", got)
	}
}

func TestProcessBirthdayScenario(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Process("Do you remember my birthday is in July?"); err != nil {
		t.Fatalf("process: %v", err)
	}

	if got := len(s.ShortTerm()); got != 1 {
		t.Errorf("expected 1 short-term memory, got %d", got)
	}
	if got := len(s.LongTerm()); got != 1 {
		t.Errorf("expected 1 long-term memory (promoted), got %d", got)
	}
	if ltm := s.LongTerm(); len(ltm) == 1 && ltm[0].Source != model.SourceAutoPromoted {
		t.Errorf("expected auto_promoted source, got %q", ltm[0].Source)
	}

	kws := s.Keywords()
	if len(kws) != 3 {
		t.Fatalf("expected 3 registry entries, got %d: %v", len(kws), kws)
	}
	for _, k := range kws {
		if k.Importance != 0.5 {
			t.Errorf("new keyword %q should start at importance 0.5, got %v", k.Text, k.Importance)
		}
		if k.Count != 1 {
			t.Errorf("new keyword %q should have count 1, got %d", k.Text, k.Count)
		}
	}
}

func TestPromotionCopiesNotMoves(t *testing.T) {
	s, _ := newTestStore(t)

	s.Process("please remember this fact")

	if got := len(s.ShortTerm()); got != 1 {
		t.Errorf("short-term copy should remain, got %d entries", got)
	}
	if got := len(s.LongTerm()); got != 1 {
		t.Errorf("expected promoted long-term copy, got %d entries", got)
	}
}

func TestKeywordImportanceGrowsAndCaps(t *testing.T) {
	s, _ := newTestStore(t)

	// 0.5 + 9*0.1 would exceed 1.0 without the cap.
	for i := 0; i < 10; i++ {
		s.Process("elephant")
	}

	kws := s.Keywords()
	if len(kws) != 1 {
		t.Fatalf("expected 1 keyword, got %d", len(kws))
	}
	if kws[0].Importance != 1.0 {
		t.Errorf("expected importance capped at 1.0, got %v", kws[0].Importance)
	}
	if kws[0].Count != 10 {
		t.Errorf("expected count 10, got %d", kws[0].Count)
	}
}

func TestKeywordRegistryCap(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 60; i++ {
		s.Process(fmt.Sprintf("uniqueterm%02d", i))
		if got := len(s.Keywords()); got > 50 {
			t.Fatalf("keyword registry exceeded cap: %d", got)
		}
	}
}

func TestKeywordRegistryEvictsLowestImportance(t *testing.T) {
	s, _ := newTestStore(t)

	// Manually registered at 0.8, above the 0.5 floor of extracted terms.
	if err := s.AddKeyword("anchored"); err != nil {
		t.Fatalf("add keyword: %v", err)
	}

	for i := 0; i < 60; i++ {
		s.Process(fmt.Sprintf("uniqueterm%02d", i))
	}

	kws := s.Keywords()
	if len(kws) != 50 {
		t.Fatalf("expected registry at cap, got %d", len(kws))
	}
	if kws[0].Text != "anchored" || kws[0].Importance != 0.8 {
		t.Errorf("boosted keyword should survive overflow at the head, got %+v", kws[0])
	}
	survivors := make(map[string]bool, len(kws))
	for _, k := range kws {
		survivors[k.Text] = true
	}
	if !survivors["uniqueterm00"] {
		t.Error("earliest equal-importance entry should survive")
	}
	if survivors["uniqueterm59"] {
		t.Error("overflowing lowest-importance entry should be evicted")
	}
}

func TestAddManualBypassesPromotion(t *testing.T) {
	s, _ := newTestStore(t)

	mem, err := s.Add(model.ShortTerm, "ok", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if mem.Source != model.SourceManual {
		t.Errorf("expected manual source, got %q", mem.Source)
	}
	if got := len(s.LongTerm()); got != 0 {
		t.Errorf("manual short-term add must not promote, got %d LTM entries", got)
	}
}

func TestAddKeywordManualPath(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.AddKeyword("favorites"); err != nil {
		t.Fatalf("add keyword: %v", err)
	}
	kws := s.Keywords()
	if len(kws) != 1 || kws[0].Importance != 0.8 {
		t.Fatalf("expected new manual keyword at 0.8, got %+v", kws)
	}

	// Boosting an existing keyword adds 0.2.
	if err := s.AddKeyword("favorites"); err != nil {
		t.Fatalf("boost keyword: %v", err)
	}
	if got := s.Keywords()[0].Importance; got != 1.0 {
		t.Errorf("expected boosted importance 1.0, got %v", got)
	}
}

func TestEditReExtractsKeywords(t *testing.T) {
	s, _ := newTestStore(t)

	mem, _ := s.Add(model.LongTerm, "original subject matter", nil)
	edited, err := s.Edit(mem.ID, model.LongTerm, "completely different topic")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if !edited.Edited {
		t.Error("expected edited flag")
	}
	if edited.EditTimestamp == nil {
		t.Error("expected edit timestamp")
	}
	for _, kw := range edited.Keywords {
		if kw == "original" || kw == "subject" || kw == "matter" {
			t.Errorf("stale keyword %q after edit", kw)
		}
	}
}

func TestDeleteMissing(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Delete("nope", model.ShortTerm); err == nil {
		t.Error("expected error deleting unknown memory")
	}
}

func TestRemoveByMessagePrefixMatch(t *testing.T) {
	s, _ := newTestStore(t)

	content := "My favorite color is blue and I want you to never forget it because it matters"
	s.Process(content)
	s.Process("unrelated note about gardening")

	if err := s.RemoveByMessage(content); err != nil {
		t.Fatalf("remove: %v", err)
	}

	for _, m := range s.ShortTerm() {
		if m.Content == content {
			t.Error("memory matching message prefix should be removed")
		}
	}
	if got := len(s.ShortTerm()); got != 1 {
		t.Errorf("unrelated memory should survive, got %d entries", got)
	}
	for _, m := range s.LongTerm() {
		if m.Content == content {
			t.Error("promoted copy should be removed too")
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	port := persist.NewMapStore()
	s := NewStore(port)

	s.Process("remember the roadmap review?")
	s.AddKeyword("roadmap")

	// A fresh store over the same port sees the same collections.
	reloaded := NewStore(port)
	if got, want := len(reloaded.ShortTerm()), len(s.ShortTerm()); got != want {
		t.Errorf("short-term mismatch after reload: %d vs %d", got, want)
	}
	if got, want := len(reloaded.LongTerm()), len(s.LongTerm()); got != want {
		t.Errorf("long-term mismatch after reload: %d vs %d", got, want)
	}
	if got, want := len(reloaded.Keywords()), len(s.Keywords()); got != want {
		t.Errorf("keyword mismatch after reload: %d vs %d", got, want)
	}
}

func TestCorruptBlobResets(t *testing.T) {
	port := persist.NewMapStore()
	port.Save(persist.KeySTM, []byte("{not json"))

	s := NewStore(port)
	if got := len(s.ShortTerm()); got != 0 {
		t.Errorf("corrupt blob should reset to empty, got %d", got)
	}
}

func TestOnChangeFires(t *testing.T) {
	s, _ := newTestStore(t)

	var fired int
	s.OnChange(func() { fired++ })

	s.Process("something noteworthy happened today honestly")
	if fired == 0 {
		t.Error("expected change hook to fire on process")
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)

	s.Process("always take notes") // emphasis word, promoted
	s.Add(model.LongTerm, "manual", nil)
	s.Add(model.ShortTerm, "scratch", nil)

	st := s.Stats()
	if st.AutoPromoted != 1 {
		t.Errorf("expected 1 auto-promoted, got %d", st.AutoPromoted)
	}
	if st.Manual != 1 {
		t.Errorf("expected 1 manual LTM entry, got %d", st.Manual)
	}
	if st.ShortTerm != 2 {
		t.Errorf("expected 2 short-term entries, got %d", st.ShortTerm)
	}
}

func TestTimestampsAreSet(t *testing.T) {
	s, _ := newTestStore(t)

	before := time.Now().Add(-time.Second)
	s.Process("checking timestamps work fine")
	stm := s.ShortTerm()
	if len(stm) != 1 || stm[0].Timestamp.Before(before) {
		t.Error("expected memory timestamp to be set to now")
	}
}
