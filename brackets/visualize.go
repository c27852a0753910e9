package brackets

import (
	"fmt"
	"io"
	"strings"
)

const (
	maxVisualizeSlots = 64
	boxInner          = 17
	boxWidth          = boxInner + 2
	connectorWidth    = 5 // "--|--" between two rounds
)

// Visualize writes a text drawing of b: one column per round, one box per
// match, lines joining each pair of feeders to the match they feed. It reads
// only participant seeds and match seeds, so it can be drawn at any stage.
func Visualize(w io.Writer, b *Bracket) error {
	slots, err := NearestPow2(len(b.participants))
	if err != nil || slots > maxVisualizeSlots {
		return fmt.Errorf("%w: bracket has %d participants", ErrTooLargeToVisualize, len(b.participants))
	}
	rounds := log2(slots)

	height := 2*slots - 1
	width := rounds*boxWidth + (rounds-1)*connectorWidth
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	put := func(x, y int, s string) {
		for i, r := range []rune(s) {
			if x+i < width {
				grid[y][x+i] = r
			}
		}
	}

	id := 1
	for r := 1; r <= rounds; r++ {
		x := (r - 1) * (boxWidth + connectorWidth)
		for m := 0; m < slots>>r; m++ {
			y := boxCenter(r, m)
			border := "+" + strings.Repeat("-", boxInner) + "+"
			put(x, y-1, border)
			put(x, y, "|"+fitLabel(matchupLabel(b, id))+"|")
			put(x, y+1, border)

			if r < rounds {
				put(x+boxWidth, y, "--")
				if m%2 == 0 {
					bottom := boxCenter(r, m+1)
					for yy := y; yy <= bottom; yy++ {
						put(x+boxWidth+2, yy, "|")
					}
					put(x+boxWidth+2, y, "+")
					put(x+boxWidth+2, bottom, "+")
					put(x+boxWidth+3, boxCenter(r+1, m/2), "--")
				}
			}
			id++
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

// boxCenter is the grid row of the m-th match (0-based) in round r.
func boxCenter(r, m int) int {
	return (1<<(r+1))*m + (1 << r) - 1
}

func matchupLabel(b *Bracket, id int) string {
	m, ok := b.byID[id]
	if !ok {
		return fmt.Sprintf("M%d ??? v ???", id)
	}
	return fmt.Sprintf("M%d %s v %s", id, slotLabel(b, m.p1Seed), slotLabel(b, m.p2Seed))
}

func slotLabel(b *Bracket, s *Seed) string {
	if s == nil {
		return "???"
	}
	if p := b.holderOf(s); p != nil {
		return "P" + p.ID
	}
	return s.String()
}

func fitLabel(s string) string {
	s = " " + s
	if r := []rune(s); len(r) > boxInner {
		return string(r[:boxInner])
	}
	return s + strings.Repeat(" ", boxInner-len([]rune(s)))
}
