package brackets

import (
	"fmt"
	"io"
	"sort"
)

// Type: вариант турнирной сетки. Генератор есть только у TypeElimination.
type Type int

const (
	TypeElimination Type = iota
	TypeRoundRobin
	TypeSwiss
)

func (t Type) String() string {
	switch t {
	case TypeElimination:
		return "SingleElimination"
	case TypeRoundRobin:
		return "RoundRobin"
	case TypeSwiss:
		return "Swiss"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// State is advanced only by Start and Finalize, never by match results.
type State int

const (
	StateStaging State = iota
	StateInProgress
	StateFinal
)

func (s State) String() string {
	switch s {
	case StateStaging:
		return "staging"
	case StateInProgress:
		return "in_progress"
	case StateFinal:
		return "final"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	ID           string
	Type         Type
	State        State
	SupportDraws bool // accepted and stored, no outcome path reads it
	Participants []*Participant
	Matches      []*Match
	Meta         Meta
}

// Bracket owns its participants and matches. Matches refer to each other
// only through seeds, never through pointers.
type Bracket struct {
	ID string

	typ          Type
	state        State
	supportDraws bool
	participants []*Participant
	matches      []*Match
	byID         map[int]*Match
	fedBy        map[Seed]*Match
	meta         Meta
	generator    Generator
}

func New(opts Options) (*Bracket, error) {
	gen, err := generatorFor(opts.Type)
	if err != nil {
		return nil, err
	}
	b := &Bracket{
		ID:           opts.ID,
		typ:          opts.Type,
		state:        opts.State,
		supportDraws: opts.SupportDraws,
		participants: append([]*Participant(nil), opts.Participants...),
		meta:         opts.Meta.Clone(),
		generator:    gen,
	}
	b.setMatches(opts.Matches)
	return b, nil
}

func generatorFor(t Type) (Generator, error) {
	switch t {
	case TypeElimination:
		return NewSingleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func (b *Bracket) Type() Type          { return b.typ }
func (b *Bracket) State() State        { return b.state }
func (b *Bracket) SupportDraws() bool  { return b.supportDraws }
func (b *Bracket) Meta() Meta          { return b.meta.Clone() }
func (b *Bracket) SetMeta(meta Meta)   { b.meta = meta.Clone() }
func (b *Bracket) MergeMeta(meta Meta) { b.meta = b.meta.Merge(meta) }

func (b *Bracket) SetMetaByKey(key string, value any) {
	b.meta = b.meta.Merge(Meta{key: value})
}

func (b *Bracket) setMatches(ms []*Match) {
	b.matches = make([]*Match, 0, len(ms))
	b.byID = make(map[int]*Match, len(ms))
	b.fedBy = make(map[Seed]*Match, 2*len(ms))
	for _, m := range ms {
		m.bracket = b
		b.matches = append(b.matches, m)
		b.byID[m.id] = m
		for _, s := range []*Seed{m.p1Seed, m.p2Seed} {
			if s != nil {
				b.fedBy[*s] = m
			}
		}
	}
}

func (b *Bracket) AddParticipants(ps ...*Participant) {
	b.participants = append(b.participants, ps...)
}

// SortParticipants reorders participants with a stable sort. A nil less is a no-op.
func (b *Bracket) SortParticipants(less func(x, y *Participant) bool) {
	if less == nil {
		return
	}
	sort.SliceStable(b.participants, func(i, j int) bool {
		return less(b.participants[i], b.participants[j])
	})
}

// Participants returns the participants in seeding order.
func (b *Bracket) Participants() []*Participant {
	return append([]*Participant(nil), b.participants...)
}

func (b *Bracket) Participant(id string) (*Participant, bool) {
	for _, p := range b.participants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CreateMatches discards any existing matches and builds a fresh tree.
func (b *Bracket) CreateMatches() error {
	b.setMatches(nil)
	ms, err := b.generator.GenerateMatches(b)
	if err != nil {
		return fmt.Errorf("%s: failed to generate matches: %w", b.generator.GetName(), err)
	}
	b.setMatches(ms)
	return nil
}

// SeedParticipants hands out S1..Sn in the current participant order.
// Calling it again adds more S seeds without removing the old ones.
func (b *Bracket) SeedParticipants() {
	for i, p := range b.participants {
		p.AddSeed(Initial(i + 1))
	}
}

// SeedMatches resolves seeds to participants for every undecided match and
// decides first-round byes. Matches are visited in id order so a bye winner
// is already holding its W seed when the next round is resolved.
func (b *Bracket) SeedMatches() error {
	for _, m := range b.Matches() {
		if m.Decided() {
			continue
		}
		p1 := b.holderOf(m.p1Seed)
		p2 := b.holderOf(m.p2Seed)
		m.UpdatePlayers(p1, p2)
		if p1 != nil {
			p1.AddMatch(m)
		}
		if p2 != nil {
			p2.AddMatch(m)
		}

		if !isOpeningMatch(m) {
			continue
		}
		var err error
		switch {
		case p1 != nil && p2 == nil:
			err = m.UpdateWinner(WinnerP1)
		case p2 != nil && p1 == nil:
			err = m.UpdateWinner(WinnerP2)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve bye in match %d: %w", m.id, err)
		}
	}
	return nil
}

func isOpeningMatch(m *Match) bool {
	return m.p1Seed != nil && m.p1Seed.Kind == SeedInitial &&
		m.p2Seed != nil && m.p2Seed.Kind == SeedInitial
}

// holderOf finds the first participant, in seeding order, holding s.
func (b *Bracket) holderOf(s *Seed) *Participant {
	if s == nil {
		return nil
	}
	for _, p := range b.participants {
		if p.HasSeed(*s) {
			return p
		}
	}
	return nil
}

// matchFedBy returns the match holding a slot for s. Seeds on matches never
// change after creation, so the index built in setMatches stays valid.
func (b *Bracket) matchFedBy(s Seed) *Match {
	return b.fedBy[s]
}

func (b *Bracket) Start() {
	b.state = StateInProgress
}

func (b *Bracket) Finalize() {
	b.state = StateFinal
}

// Matches returns all matches ordered by id, which is round order.
func (b *Bracket) Matches() []*Match {
	out := append([]*Match(nil), b.matches...)
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (b *Bracket) Match(id int) (*Match, bool) {
	m, ok := b.byID[id]
	return m, ok
}

func (b *Bracket) Rounds() int {
	rounds := 0
	for _, m := range b.matches {
		if m.round > rounds {
			rounds = m.round
		}
	}
	return rounds
}

func (b *Bracket) MatchesInRound(round int) []*Match {
	var out []*Match
	for _, m := range b.Matches() {
		if m.round == round {
			out = append(out, m)
		}
	}
	return out
}

// Final returns the match of the last round.
func (b *Bracket) Final() *Match {
	var final *Match
	for _, m := range b.matches {
		if final == nil || m.round > final.round || (m.round == final.round && m.id > final.id) {
			final = m
		}
	}
	return final
}

// Champion is the winner of the final, nil until it is decided.
func (b *Bracket) Champion() *Participant {
	final := b.Final()
	if final == nil {
		return nil
	}
	return final.WinnerParticipant()
}

// Visualize draws the bracket as text.
func (b *Bracket) Visualize(w io.Writer) error {
	return Visualize(w, b)
}
