package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/go-andiamo/splitter"
)

var (
	ErrUnknownCommand = errors.New("unknown command, type help")
	ErrUsage          = errors.New("wrong arguments")
)

// newTokenizer splits a command line on spaces, keeping "Faze Clan" as one token.
func newTokenizer() (func(string) ([]string, error), error) {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to create command splitter: %w", err)
	}
	return func(line string) ([]string, error) {
		parts, err := spaceSplitter.Split(strings.TrimSpace(line))
		if err != nil {
			return nil, err
		}
		tokens := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.Trim(strings.TrimSpace(p), "\"“”")
			if p != "" {
				tokens = append(tokens, p)
			}
		}
		return tokens, nil
	}, nil
}

// parseMatchID accepts "3" as well as the drawn label "M3".
func parseMatchID(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "M"), "m")
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: match id must be a positive number, got %q", ErrUsage, s)
	}
	return id, nil
}

func parseScore(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: score must be a number, got %q", ErrUsage, s)
	}
	return v, nil
}

func slotName(p *services.ParticipantView, seed string) string {
	if p != nil {
		return p.Name
	}
	if seed != "" {
		return seed
	}
	return "-"
}

func formatMatch(m services.MatchView) string {
	line := fmt.Sprintf("M%d (round %d): %s vs %s",
		m.MatchID, m.Round, slotName(m.Participant1, m.P1Seed), slotName(m.Participant2, m.P2Seed))
	switch {
	case m.IsBye:
		line += ", bye"
	case m.Winner != brackets.Undecided.String():
		line += fmt.Sprintf(", winner %s, score %g-%g", m.Winner, m.P1Score, m.P2Score)
	}
	return line
}

// writeError prints a short message for the operator. Errors the operator
// can fix are reported as is, anything else is logged too.
func writeError(out io.Writer, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrBracketNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		fmt.Fprintf(out, "not found: %v\n", err)

	case errors.Is(err, brackets.ErrMatchAlreadyDecided),
		errors.Is(err, brackets.ErrSuccessorDecided),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, services.ErrBracketAlreadyFinalized),
		errors.Is(err, services.ErrBracketNotInProgress):
		fmt.Fprintf(out, "conflict: %v\n", err)

	case errors.Is(err, ErrUnknownCommand),
		errors.Is(err, ErrUsage),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrEmptySlot),
		errors.Is(err, brackets.ErrMatchNotDecided),
		errors.Is(err, brackets.ErrTooLargeToVisualize):
		fmt.Fprintf(out, "invalid: %v\n", err)

	default:
		logger.Error("command failed", slog.Any("error", err))
		fmt.Fprintf(out, "error: %v\n", err)
	}
}
