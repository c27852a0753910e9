// Package rating holds the Elo calculator used to order participants
// before a bracket is seeded.
package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dosada05/bracket-engine/brackets"
)

const (
	DefaultK           = 32
	DefaultPerformance = 400

	// MetaKey is the participant metadata key holding a rating.
	MetaKey = "rating"
	// BeforeMetaKey is the match metadata key holding the ratings the match
	// was played at, keyed by participant id.
	BeforeMetaKey = "ratings_before"
)

var ErrInvalidOutcome = errors.New("invalid outcome, use Win, Draw or Loss")

// Outcome is the points a player scores from one game.
type Outcome float64

const (
	Loss Outcome = 0
	Draw Outcome = 0.5
	Win  Outcome = 1
)

type Elo struct {
	K float64
	P float64
}

func NewElo() *Elo {
	return &Elo{K: DefaultK, P: DefaultPerformance}
}

// ExpectedPoints is the chance that a player rated r1 beats one rated r2.
func ExpectedPoints(r1, r2, p float64) float64 {
	return 1 / (1 + math.Pow(10, (r2-r1)/p))
}

// Calculate returns r1's new rating after playing r2.
func (e *Elo) Calculate(r1, r2 float64, outcome Outcome) (float64, error) {
	if outcome != Win && outcome != Draw && outcome != Loss {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOutcome, float64(outcome))
	}
	k, p := e.K, e.P
	if k == 0 {
		k = DefaultK
	}
	if p == 0 {
		p = DefaultPerformance
	}
	return r1 + k*(float64(outcome)-ExpectedPoints(r1, r2, p)), nil
}

// ByRating orders participants from highest to lowest rating stored under
// MetaKey. Participants without a rating go last.
func ByRating(x, y *brackets.Participant) bool {
	rx, okx := x.Meta().Float(MetaKey)
	ry, oky := y.Meta().Float(MetaKey)
	if okx != oky {
		return okx
	}
	return rx > ry
}

// ApplyResult updates the ratings of both players of a decided match once.
// Undecided matches, byes, unrated players and matches already applied are
// left alone.
func (e *Elo) ApplyResult(m *brackets.Match) error {
	winner, loser := m.WinnerParticipant(), m.Loser()
	if winner == nil || loser == nil {
		return nil
	}
	if _, applied := m.Meta()[BeforeMetaKey]; applied {
		return nil
	}
	rw, okw := winner.Meta().Float(MetaKey)
	rl, okl := loser.Meta().Float(MetaKey)
	if !okw || !okl {
		return nil
	}

	newW, err := e.Calculate(rw, rl, Win)
	if err != nil {
		return err
	}
	newL, err := e.Calculate(rl, rw, Loss)
	if err != nil {
		return err
	}
	winner.SetMetaByKey(MetaKey, newW)
	loser.SetMetaByKey(MetaKey, newL)
	m.MergeMeta(brackets.Meta{BeforeMetaKey: map[string]float64{winner.ID: rw, loser.ID: rl}})
	return nil
}

// RevertResult puts back the ratings recorded by ApplyResult, so a corrected
// result is rated from the same starting point.
func (e *Elo) RevertResult(m *brackets.Match) {
	meta := m.Meta()
	before, ok := meta[BeforeMetaKey].(map[string]float64)
	if !ok {
		return
	}
	for _, p := range []*brackets.Participant{m.P1(), m.P2()} {
		if p == nil {
			continue
		}
		if r, ok := before[p.ID]; ok {
			p.SetMetaByKey(MetaKey, r)
		}
	}
	delete(meta, BeforeMetaKey)
	m.SetMeta(meta)
}
