package brackets

// Generator builds the match tree for one bracket type.
type Generator interface {
	GenerateMatches(b *Bracket) ([]*Match, error)

	GetName() string
}
