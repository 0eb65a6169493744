package keyword

import (
	"reflect"
	"testing"
)

func TestExtract_Empty(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}

func TestExtract_AllStopWords(t *testing.T) {
	if got := Extract("the and that with this just like"); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}

func TestExtract_DropsShortTokens(t *testing.T) {
	got := Extract("go is fun but rust is also fun")
	for _, kw := range got {
		if len(kw) < minLength {
			t.Errorf("short token %q should have been dropped", kw)
		}
	}
}

func TestExtract_FrequencyOrder(t *testing.T) {
	got := Extract("banana apple banana cherry banana apple")
	want := []string{"banana", "apple", "cherry"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtract_TiesByFirstOccurrence(t *testing.T) {
	got := Extract("zebra apple mango")
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected first-occurrence order %v, got %v", want, got)
	}
}

func TestExtract_CapsAtFive(t *testing.T) {
	got := Extract("alpha bravo charlie delta echoes foxtrot golfing")
	if len(got) != MaxTerms {
		t.Fatalf("expected %d keywords, got %d: %v", MaxTerms, len(got), got)
	}
}

func TestExtract_NormalizesCaseAndPunctuation(t *testing.T) {
	got := Extract("Birthday! BIRTHDAY? birthday...")
	want := []string{"birthday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtract_NonASCIIStrippedBeforeLengthFilter(t *testing.T) {
	// The word class is ASCII, so multibyte runes become separators and
	// only their ASCII residue reaches the length filter.
	got := Extract("café wörld 日本語 latte latte")
	want := []string{"latte"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "Do you remember my birthday is in July?"
	first := Extract(text)
	second := Extract(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extract not idempotent: %v vs %v", first, second)
	}
}

func TestExtract_BirthdayScenario(t *testing.T) {
	got := Extract("Do you remember my birthday is in July?")
	want := map[string]bool{"remember": true, "birthday": true, "july": true}
	for _, kw := range got {
		delete(want, kw)
	}
	for missing := range want {
		t.Errorf("expected keyword %q in %v", missing, got)
	}
}
