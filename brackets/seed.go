package brackets

import (
	"fmt"
	"strconv"
)

type SeedKind int

const (
	SeedInitial SeedKind = iota + 1 // S<n>: position in the seeding order
	SeedWinner                      // W<n>: won match n
	SeedLoser                       // L<n>: lost match n
)

func (k SeedKind) prefix() string {
	switch k {
	case SeedInitial:
		return "S"
	case SeedWinner:
		return "W"
	case SeedLoser:
		return "L"
	default:
		return "?"
	}
}

// Seed is the label through which matches find their participants.
// For SeedInitial N is a seed number, otherwise it is a match ID.
type Seed struct {
	Kind SeedKind
	N    int
}

func Initial(n int) Seed { return Seed{Kind: SeedInitial, N: n} }
func WinnerOf(id int) Seed { return Seed{Kind: SeedWinner, N: id} }
func LoserOf(id int) Seed { return Seed{Kind: SeedLoser, N: id} }

func (s Seed) String() string {
	return s.Kind.prefix() + strconv.Itoa(s.N)
}

// ParseSeed reads labels of the form S12, W3 or L3.
func ParseSeed(label string) (Seed, error) {
	if len(label) < 2 {
		return Seed{}, fmt.Errorf("%w: %q", ErrInvalidSeed, label)
	}
	var kind SeedKind
	switch label[0] {
	case 'S':
		kind = SeedInitial
	case 'W':
		kind = SeedWinner
	case 'L':
		kind = SeedLoser
	default:
		return Seed{}, fmt.Errorf("%w: %q", ErrInvalidSeed, label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 {
		return Seed{}, fmt.Errorf("%w: %q", ErrInvalidSeed, label)
	}
	return Seed{Kind: kind, N: n}, nil
}

func seedPtr(s Seed) *Seed { return &s }
