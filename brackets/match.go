package brackets

import "fmt"

type Winner int

const (
	Undecided Winner = iota
	WinnerP1
	WinnerP2
)

func (w Winner) String() string {
	switch w {
	case Undecided:
		return "undecided"
	case WinnerP1:
		return "p1"
	case WinnerP2:
		return "p2"
	default:
		return fmt.Sprintf("winner(%d)", int(w))
	}
}

// Match is a node of the bracket tree. Its seed references are fixed at
// creation; players, scores and the winner change as results come in.
type Match struct {
	id     int
	round  int
	p1Seed *Seed
	p2Seed *Seed

	p1      *Participant
	p2      *Participant
	p1Score float64
	p2Score float64
	winner  Winner

	bracket *Bracket // non-owning, used to find the next match
	meta    Meta
}

type MatchOptions struct {
	ID     int
	Round  int
	P1Seed *Seed
	P2Seed *Seed
	Meta   Meta
}

// NewMatch creates an undecided, empty match bound to b.
func NewMatch(b *Bracket, opts MatchOptions) *Match {
	return &Match{
		id:      opts.ID,
		round:   opts.Round,
		p1Seed:  opts.P1Seed,
		p2Seed:  opts.P2Seed,
		winner:  Undecided,
		bracket: b,
		meta:    opts.Meta.Clone(),
	}
}

func (m *Match) ID() int              { return m.id }
func (m *Match) Round() int           { return m.round }
func (m *Match) P1() *Participant     { return m.p1 }
func (m *Match) P2() *Participant     { return m.p2 }
func (m *Match) P1Score() float64     { return m.p1Score }
func (m *Match) P2Score() float64     { return m.p2Score }
func (m *Match) Winner() Winner       { return m.winner }
func (m *Match) Decided() bool        { return m.winner != Undecided }
func (m *Match) Bracket() *Bracket    { return m.bracket }
func (m *Match) P1Seed() (Seed, bool) { return derefSeed(m.p1Seed) }
func (m *Match) P2Seed() (Seed, bool) { return derefSeed(m.p2Seed) }
func (m *Match) Label() string        { return fmt.Sprintf("M%d", m.id) }
func (m *Match) Meta() Meta           { return m.meta.Clone() }
func (m *Match) SetMeta(meta Meta)    { m.meta = meta.Clone() }
func (m *Match) MergeMeta(meta Meta)  { m.meta = m.meta.Merge(meta) }
func (m *Match) String() string       { return m.Label() }

func derefSeed(s *Seed) (Seed, bool) {
	if s == nil {
		return Seed{}, false
	}
	return *s, true
}

// WinnerParticipant returns the participant in the winning slot, if any.
func (m *Match) WinnerParticipant() *Participant {
	switch m.winner {
	case WinnerP1:
		return m.p1
	case WinnerP2:
		return m.p2
	default:
		return nil
	}
}

func (m *Match) Loser() *Participant {
	switch m.winner {
	case WinnerP1:
		return m.p2
	case WinnerP2:
		return m.p1
	default:
		return nil
	}
}

// IsBye reports a decided opening match that had only one participant.
func (m *Match) IsBye() bool {
	return m.winner != Undecided && isOpeningMatch(m) && (m.p1 == nil) != (m.p2 == nil)
}

// Ready reports whether both slots are filled or can no longer be filled:
// opening matches are always ready, later matches wait for every feeder.
func (m *Match) Ready() bool {
	if isOpeningMatch(m) || (m.p1 != nil && m.p2 != nil) {
		return true
	}
	if m.bracket == nil {
		return false
	}
	for _, s := range []*Seed{m.p1Seed, m.p2Seed} {
		if s == nil || s.Kind != SeedWinner {
			continue
		}
		if feeder, ok := m.bracket.byID[s.N]; ok && !feeder.Decided() {
			return false
		}
	}
	return true
}

func (m *Match) UpdatePlayers(p1, p2 *Participant) {
	m.p1 = p1
	m.p2 = p2
}

func (m *Match) UpdateScore(p1Score, p2Score float64) {
	m.p1Score = p1Score
	m.p2Score = p2Score
}

// UpdateWinner decides the match, hands out W/L seeds and moves the winner
// into the next match. Repeating the same outcome or passing Undecided to a
// decided match does nothing; changing a decided outcome requires Undo first.
func (m *Match) UpdateWinner(w Winner) error {
	if w != Undecided && w != WinnerP1 && w != WinnerP2 {
		return fmt.Errorf("%w: %d", ErrUnknownWinner, int(w))
	}
	if m.winner != Undecided {
		if m.winner == w || w == Undecided {
			return nil
		}
		return fmt.Errorf("%w: match %d is %s", ErrMatchAlreadyDecided, m.id, m.winner)
	}
	if w == Undecided {
		return nil
	}

	m.winner = w
	winner, loser := m.WinnerParticipant(), m.Loser()
	if winner != nil {
		winner.AddSeed(WinnerOf(m.id))
	}
	if loser != nil {
		loser.AddSeed(LoserOf(m.id))
	}

	next := m.Next()
	if next == nil {
		return nil
	}
	switch next.slotFor(WinnerOf(m.id)) {
	case 1:
		next.UpdatePlayers(winner, next.p2)
	case 2:
		next.UpdatePlayers(next.p1, winner)
	}
	if winner != nil {
		winner.AddMatch(next)
	}
	return nil
}

// Undo returns the match to undecided, taking back the seeds it granted and
// the placement it made in the next match.
func (m *Match) Undo() error {
	if m.winner == Undecided {
		return fmt.Errorf("%w: match %d", ErrMatchNotDecided, m.id)
	}
	next := m.Next()
	if next != nil && next.winner != Undecided {
		return fmt.Errorf("%w: match %d feeds decided match %d", ErrSuccessorDecided, m.id, next.id)
	}

	winner, loser := m.WinnerParticipant(), m.Loser()
	if winner != nil {
		winner.DeleteSeed(WinnerOf(m.id))
	}
	if loser != nil {
		loser.DeleteSeed(LoserOf(m.id))
	}
	if next != nil {
		switch next.slotFor(WinnerOf(m.id)) {
		case 1:
			next.UpdatePlayers(nil, next.p2)
		case 2:
			next.UpdatePlayers(next.p1, nil)
		}
		if winner != nil {
			winner.removeMatch(next)
		}
	}
	m.winner = Undecided
	return nil
}

// Next returns the match that takes this match's winner, or nil for the final.
func (m *Match) Next() *Match {
	if m.bracket == nil {
		return nil
	}
	return m.bracket.matchFedBy(WinnerOf(m.id))
}

// slotFor returns 1 or 2 for the slot referencing s, 0 when neither does.
func (m *Match) slotFor(s Seed) int {
	switch {
	case m.p1Seed != nil && *m.p1Seed == s:
		return 1
	case m.p2Seed != nil && *m.p2Seed == s:
		return 2
	default:
		return 0
	}
}
