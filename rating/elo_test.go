package rating

import (
	"sort"
	"testing"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedPointsAreSymmetric(t *testing.T) {
	pairs := [][2]float64{{1500, 1500}, {1600, 1400}, {2100, 1200}, {800, 2400}}
	for _, p := range pairs {
		e1 := ExpectedPoints(p[0], p[1], DefaultPerformance)
		e2 := ExpectedPoints(p[1], p[0], DefaultPerformance)
		assert.InDelta(t, 1.0, e1+e2, 1e-9, "%v", p)
	}
	assert.InDelta(t, 0.5, ExpectedPoints(1500, 1500, DefaultPerformance), 1e-9)
	assert.InDelta(t, 1/(1+0.1), ExpectedPoints(1800, 1400, DefaultPerformance), 1e-9)
}

func TestCalculate(t *testing.T) {
	elo := NewElo()

	got, err := elo.Calculate(1500, 1500, Win)
	require.NoError(t, err)
	assert.InDelta(t, 1516, got, 1e-9)

	got, err = elo.Calculate(1500, 1500, Draw)
	require.NoError(t, err)
	assert.InDelta(t, 1500, got, 1e-9)

	got, err = elo.Calculate(1500, 1500, Loss)
	require.NoError(t, err)
	assert.InDelta(t, 1484, got, 1e-9)

	_, err = elo.Calculate(1500, 1500, Outcome(0.7))
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	zero := &Elo{}
	got, err = zero.Calculate(1500, 1500, Win)
	require.NoError(t, err)
	assert.InDelta(t, 1516, got, 1e-9, "zero K and P fall back to defaults")
}

func rated(id string, r float64) *brackets.Participant {
	p := brackets.NewParticipant(id, id)
	p.SetMetaByKey(MetaKey, r)
	return p
}

func TestByRating(t *testing.T) {
	ps := []*brackets.Participant{
		rated("mid", 1500),
		brackets.NewParticipant("unrated", "unrated"),
		rated("top", 1900),
		rated("low", 1100),
	}
	sort.SliceStable(ps, func(i, j int) bool { return ByRating(ps[i], ps[j]) })

	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"top", "mid", "low", "unrated"}, ids)
}

func decidedMatch(t *testing.T, p1, p2 *brackets.Participant, w brackets.Winner) *brackets.Match {
	t.Helper()
	b, err := brackets.New(brackets.Options{Type: brackets.TypeElimination})
	require.NoError(t, err)
	b.AddParticipants(p1, p2)
	require.NoError(t, b.CreateMatches())
	b.SeedParticipants()
	require.NoError(t, b.SeedMatches())
	m := b.Final()
	require.NoError(t, m.UpdateWinner(w))
	return m
}

func TestApplyResult(t *testing.T) {
	elo := NewElo()
	a, b := rated("a", 1500), rated("b", 1500)
	m := decidedMatch(t, a, b, brackets.WinnerP2)

	require.NoError(t, elo.ApplyResult(m))
	ra, _ := a.Meta().Float(MetaKey)
	rb, _ := b.Meta().Float(MetaKey)
	assert.InDelta(t, 1484, ra, 1e-9)
	assert.InDelta(t, 1516, rb, 1e-9)
}

func TestApplyResultSkipsUnrated(t *testing.T) {
	a, b := rated("a", 1500), brackets.NewParticipant("b", "b")
	m := decidedMatch(t, a, b, brackets.WinnerP1)

	require.NoError(t, NewElo().ApplyResult(m))
	ra, _ := a.Meta().Float(MetaKey)
	assert.Equal(t, 1500.0, ra)
	_, ok := b.Meta().Float(MetaKey)
	assert.False(t, ok)
}

func TestApplyResultOncePerMatch(t *testing.T) {
	elo := NewElo()
	a, b := rated("a", 1500), rated("b", 1500)
	m := decidedMatch(t, a, b, brackets.WinnerP1)

	require.NoError(t, elo.ApplyResult(m))
	require.NoError(t, elo.ApplyResult(m))
	ra, _ := a.Meta().Float(MetaKey)
	assert.InDelta(t, 1516, ra, 1e-9)

	elo.RevertResult(m)
	ra, _ = a.Meta().Float(MetaKey)
	rb, _ := b.Meta().Float(MetaKey)
	assert.Equal(t, 1500.0, ra)
	assert.Equal(t, 1500.0, rb)
	_, recorded := m.Meta()[BeforeMetaKey]
	assert.False(t, recorded)

	require.NoError(t, m.Undo())
	require.NoError(t, m.UpdateWinner(brackets.WinnerP2))
	require.NoError(t, elo.ApplyResult(m))
	rb, _ = b.Meta().Float(MetaKey)
	assert.InDelta(t, 1516, rb, 1e-9)
}
