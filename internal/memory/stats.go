package memory

import "github.com/rcliao/persona-chat/internal/model"

// Stats summarizes the memory collections.
type Stats struct {
	ShortTerm    int             `json:"shortTerm"`
	LongTerm     int             `json:"longTerm"`
	AutoPromoted int             `json:"autoPromoted"`
	Manual       int             `json:"manual"`
	Keywords     int             `json:"keywords"`
	TopKeywords  []model.Keyword `json:"topKeywords,omitempty"`
}

// Stats returns collection sizes and the highest-importance keywords.
func (s *Store) Stats() Stats {
	st := Stats{
		ShortTerm: len(s.shortTerm),
		LongTerm:  len(s.longTerm),
		Keywords:  len(s.keywords),
	}

	for _, m := range s.longTerm {
		switch m.Source {
		case model.SourceAutoPromoted:
			st.AutoPromoted++
		case model.SourceManual:
			st.Manual++
		}
	}

	top := s.keywords
	if len(top) > 5 {
		top = top[:5]
	}
	st.TopKeywords = append([]model.Keyword(nil), top...)

	return st
}
