package services

import (
	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/rating"
)

type ParticipantView struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Seeds  []string `json:"seeds"`
	Rating *float64 `json:"rating,omitempty"`
}

type MatchView struct {
	MatchID      int              `json:"match_id"`
	Round        int              `json:"round"`
	P1Seed       string           `json:"p1_seed,omitempty"`
	P2Seed       string           `json:"p2_seed,omitempty"`
	Participant1 *ParticipantView `json:"participant1,omitempty"`
	Participant2 *ParticipantView `json:"participant2,omitempty"`
	P1Score      float64          `json:"p1_score"`
	P2Score      float64          `json:"p2_score"`
	Winner       string           `json:"winner"`
	IsBye        bool             `json:"is_bye"`
	NextMatchID  *int             `json:"next_match_id,omitempty"`
}

type BracketView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	State        string            `json:"state"`
	SupportDraws bool              `json:"support_draws"`
	Rounds       int               `json:"rounds"`
	Participants []ParticipantView `json:"participants"`
	Matches      []MatchView       `json:"matches"`
	Champion     *ParticipantView  `json:"champion,omitempty"`
	Meta         brackets.Meta     `json:"meta,omitempty"`
}

func toParticipantView(p *brackets.Participant) *ParticipantView {
	if p == nil {
		return nil
	}
	seeds := p.Seeds()
	view := &ParticipantView{
		ID:    p.ID,
		Name:  p.Name,
		Seeds: make([]string, len(seeds)),
	}
	for i, s := range seeds {
		view.Seeds[i] = s.String()
	}
	if r, ok := p.Meta().Float(rating.MetaKey); ok {
		view.Rating = &r
	}
	return view
}

func toMatchView(m *brackets.Match) MatchView {
	mv := MatchView{
		MatchID:      m.ID(),
		Round:        m.Round(),
		Participant1: toParticipantView(m.P1()),
		Participant2: toParticipantView(m.P2()),
		P1Score:      m.P1Score(),
		P2Score:      m.P2Score(),
		Winner:       m.Winner().String(),
		IsBye:        m.IsBye(),
	}
	if s, ok := m.P1Seed(); ok {
		mv.P1Seed = s.String()
	}
	if s, ok := m.P2Seed(); ok {
		mv.P2Seed = s.String()
	}
	if next := m.Next(); next != nil {
		id := next.ID()
		mv.NextMatchID = &id
	}
	return mv
}

func toBracketView(name string, b *brackets.Bracket) *BracketView {
	participants := b.Participants()
	matches := b.Matches()
	view := &BracketView{
		ID:           b.ID,
		Name:         name,
		Type:         b.Type().String(),
		State:        b.State().String(),
		SupportDraws: b.SupportDraws(),
		Rounds:       b.Rounds(),
		Participants: make([]ParticipantView, 0, len(participants)),
		Matches:      make([]MatchView, 0, len(matches)),
		Champion:     toParticipantView(b.Champion()),
		Meta:         b.Meta(),
	}
	for _, p := range participants {
		view.Participants = append(view.Participants, *toParticipantView(p))
	}
	for _, m := range matches {
		view.Matches = append(view.Matches, toMatchView(m))
	}
	return view
}
