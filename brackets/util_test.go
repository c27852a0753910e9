package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestPow2(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		wantErr bool
	}{
		{in: -1, wantErr: true},
		{in: 0, want: 2},
		{in: 1, want: 2},
		{in: 2, want: 2},
		{in: 3, want: 4},
		{in: 5, want: 8},
		{in: 8, want: 8},
		{in: 9, want: 16},
		{in: 33, want: 64},
		{in: 1000, want: 1024},
		{in: 65536, want: 65536},
		{in: 65537, wantErr: true},
	}
	for _, tt := range tests {
		got, err := NearestPow2(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrOutOfRange, "NearestPow2(%d)", tt.in)
			continue
		}
		require.NoError(t, err, "NearestPow2(%d)", tt.in)
		assert.Equal(t, tt.want, got, "NearestPow2(%d)", tt.in)
	}
}

func TestLog2(t *testing.T) {
	assert.Equal(t, 1, log2(2))
	assert.Equal(t, 3, log2(8))
	assert.Equal(t, 16, log2(65536))
}

func TestSeedStringAndParse(t *testing.T) {
	assert.Equal(t, "S12", Initial(12).String())
	assert.Equal(t, "W3", WinnerOf(3).String())
	assert.Equal(t, "L3", LoserOf(3).String())

	for _, s := range []Seed{Initial(1), WinnerOf(7), LoserOf(42)} {
		parsed, err := ParseSeed(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	for _, bad := range []string{"", "S", "X1", "W0", "S-1", "Wx"} {
		_, err := ParseSeed(bad)
		assert.ErrorIs(t, err, ErrInvalidSeed, "ParseSeed(%q)", bad)
	}
}

func TestMetaCopySemantics(t *testing.T) {
	var nilMeta Meta
	assert.NotNil(t, nilMeta.Clone())

	src := Meta{"source": "cup.yaml"}
	p := NewParticipant("1", "Alice")
	p.SetMeta(src)
	src["source"] = "changed"
	assert.Equal(t, "cup.yaml", p.Meta()["source"])

	got := p.Meta()
	got["rating"] = 1500.0
	_, ok := p.Meta()["rating"]
	assert.False(t, ok, "mutating a returned copy must not leak back")

	p.SetMetaByKey("rating", 1500)
	merged := p.Meta().Merge(Meta{"team": "red"})
	assert.Equal(t, Meta{"source": "cup.yaml", "rating": 1500, "team": "red"}, merged)

	r, ok := p.Meta().Float("rating")
	require.True(t, ok)
	assert.Equal(t, 1500.0, r)
	_, ok = p.Meta().Float("source")
	assert.False(t, ok)
}
