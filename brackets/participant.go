package brackets

import "sort"

// Participant is an entrant in a bracket. Matches locate participants only
// through the seeds they hold.
type Participant struct {
	ID   string
	Name string

	seeds   map[Seed]struct{}
	matches []*Match
	meta    Meta
}

func NewParticipant(id, name string) *Participant {
	return &Participant{
		ID:    id,
		Name:  name,
		seeds: make(map[Seed]struct{}),
		meta:  Meta{},
	}
}

func (p *Participant) AddSeed(s Seed) {
	if p.seeds == nil {
		p.seeds = make(map[Seed]struct{})
	}
	p.seeds[s] = struct{}{}
}

func (p *Participant) DeleteSeed(s Seed) {
	delete(p.seeds, s)
}

func (p *Participant) HasSeed(s Seed) bool {
	_, ok := p.seeds[s]
	return ok
}

// Seeds returns the held seeds ordered by kind, then number.
func (p *Participant) Seeds() []Seed {
	out := make([]Seed, 0, len(p.seeds))
	for s := range p.seeds {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].N < out[j].N
	})
	return out
}

// InitialSeed reports the lowest S seed the participant holds.
func (p *Participant) InitialSeed() (int, bool) {
	best := 0
	for s := range p.seeds {
		if s.Kind == SeedInitial && (best == 0 || s.N < best) {
			best = s.N
		}
	}
	return best, best != 0
}

// AddMatch records m in the participant's history once.
func (p *Participant) AddMatch(m *Match) {
	for _, existing := range p.matches {
		if existing == m {
			return
		}
	}
	p.matches = append(p.matches, m)
}

func (p *Participant) Matches() []*Match {
	out := make([]*Match, len(p.matches))
	copy(out, p.matches)
	return out
}

// Reset clears seeds and match history so the participant can enter another bracket.
func (p *Participant) Reset() {
	p.seeds = make(map[Seed]struct{})
	p.matches = nil
}

func (p *Participant) Meta() Meta {
	return p.meta.Clone()
}

func (p *Participant) SetMeta(meta Meta) {
	p.meta = meta.Clone()
}

func (p *Participant) SetMetaByKey(key string, value any) {
	p.meta = p.meta.Merge(Meta{key: value})
}

func (p *Participant) removeMatch(m *Match) {
	for i, existing := range p.matches {
		if existing == m {
			p.matches = append(p.matches[:i], p.matches[i+1:]...)
			return
		}
	}
}
