package brackets

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateMatches builds numSlots-1 matches, round by round. Round one takes
// initial seeds in FirstRoundSeeding order; every later match takes the
// winners of the two matches feeding it. Ids run 1..numSlots-1 with the
// final last.
func (g *SingleEliminationGenerator) GenerateMatches(b *Bracket) ([]*Match, error) {
	numSlots, err := NearestPow2(len(b.participants))
	if err != nil {
		return nil, err
	}
	numRounds := log2(numSlots)
	order := FirstRoundSeeding(numSlots)

	matches := make([]*Match, 0, numSlots-1)
	for round := 1; round <= numRounds; round++ {
		// раунд r содержит numSlots / 2^r матчей
		inRound := numSlots >> round
		firstID := numSlots - numSlots>>(round-1) + 1
		// первый матч предыдущего раунда
		prevFirstID := firstID - numSlots>>(round-1)

		for i := 0; i < inRound; i++ {
			opts := MatchOptions{ID: firstID + i, Round: round}
			if round == 1 {
				opts.P1Seed = seedPtr(Initial(order[2*i]))
				opts.P2Seed = seedPtr(Initial(order[2*i+1]))
			} else {
				opts.P1Seed = seedPtr(WinnerOf(prevFirstID + 2*i))
				opts.P2Seed = seedPtr(WinnerOf(prevFirstID + 2*i + 1))
			}
			matches = append(matches, NewMatch(b, opts))
		}
	}
	return matches, nil
}

// FirstRoundSeeding returns seed numbers in first-round slot order, read in
// pairs: for 8 slots 1,8,4,5,2,7,3,6 means 1v8, 4v5, 2v7, 3v6. Seeds 1 and 2
// can only meet in the final. Built backwards from the final's [1, 2]: each
// seed s in a round of k entries is fed by s and 2k+1-s.
func FirstRoundSeeding(numSlots int) []int {
	round := []int{1, 2}
	for len(round) < numSlots {
		feeder := make([]int, 2*len(round))
		for m, s := range round {
			feeder[2*m] = s
			feeder[2*m+1] = 2*len(round) + 1 - s
		}
		round = feeder
	}
	return round
}
