package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const usage = `commands:
  win <match> <p1|p2|name>   decide a match
  score <match> <s1> <s2>    record scores, the higher score wins
  undo <match>               reopen a decided match
  show                       draw the bracket
  status                     list matches
  finalize                   close the bracket
  quit
`

// ConsoleHandler drives one bracket from text commands.
type ConsoleHandler struct {
	service   services.BracketService
	bracketID string
	out       io.Writer
	logger    *slog.Logger
	tokenize  func(string) ([]string, error)
}

func NewConsoleHandler(service services.BracketService, bracketID string, out io.Writer, logger *slog.Logger) (*ConsoleHandler, error) {
	tokenize, err := newTokenizer()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleHandler{
		service:   service,
		bracketID: bracketID,
		out:       out,
		logger:    logger,
		tokenize:  tokenize,
	}, nil
}

// Serve reads commands line by line until quit, EOF or ctx is done.
// Command errors are printed and do not stop the loop.
func (h *ConsoleHandler) Serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := h.Handle(ctx, scanner.Text())
		if err != nil {
			writeError(h.out, h.logger, err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Handle runs a single command line and reports whether the operator asked to quit.
func (h *ConsoleHandler) Handle(ctx context.Context, line string) (bool, error) {
	tokens, err := h.tokenize(line)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(tokens) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(tokens[0]), tokens[1:]
	h.logger.DebugContext(ctx, "console command", slog.String("command", cmd), slog.Int("args", len(args)))

	switch cmd {
	case "win":
		return false, h.win(ctx, args)
	case "score":
		return false, h.score(ctx, args)
	case "undo":
		return false, h.undo(ctx, args)
	case "show":
		return false, h.service.Render(ctx, h.bracketID, h.out)
	case "status":
		return false, h.status(ctx)
	case "finalize":
		return false, h.finalize(ctx)
	case "help":
		_, err := io.WriteString(h.out, usage)
		return false, err
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func (h *ConsoleHandler) win(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: win <match> <p1|p2|name>", ErrUsage)
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	winner, err := h.resolveWinner(ctx, matchID, args[1])
	if err != nil {
		return err
	}
	return h.report(ctx, services.ReportResultInput{
		BracketID: h.bracketID,
		MatchID:   matchID,
		Winner:    winner,
	})
}

func (h *ConsoleHandler) score(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: score <match> <s1> <s2>", ErrUsage)
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	s1, err := parseScore(args[1])
	if err != nil {
		return err
	}
	s2, err := parseScore(args[2])
	if err != nil {
		return err
	}

	var winner brackets.Winner
	switch {
	case s1 > s2:
		winner = brackets.WinnerP1
	case s2 > s1:
		winner = brackets.WinnerP2
	default:
		return fmt.Errorf("%w: draws are not supported", services.ErrValidationFailed)
	}
	return h.report(ctx, services.ReportResultInput{
		BracketID: h.bracketID,
		MatchID:   matchID,
		P1Score:   s1,
		P2Score:   s2,
		Winner:    winner,
	})
}

func (h *ConsoleHandler) report(ctx context.Context, input services.ReportResultInput) error {
	view, err := h.service.ReportResult(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(h.out, formatMatch(*view))
	return nil
}

func (h *ConsoleHandler) undo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: undo <match>", ErrUsage)
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	view, err := h.service.UndoResult(ctx, h.bracketID, matchID)
	if err != nil {
		return err
	}
	fmt.Fprintln(h.out, formatMatch(*view))
	return nil
}

func (h *ConsoleHandler) status(ctx context.Context) error {
	view, err := h.service.Get(ctx, h.bracketID)
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "%s [%s]\n", view.Name, view.State)
	for _, m := range view.Matches {
		fmt.Fprintln(h.out, "  "+formatMatch(m))
	}
	if view.Champion != nil {
		fmt.Fprintf(h.out, "champion: %s\n", view.Champion.Name)
	}
	return nil
}

func (h *ConsoleHandler) finalize(ctx context.Context) error {
	view, err := h.service.Finalize(ctx, h.bracketID)
	if err != nil {
		return err
	}
	if view.Champion != nil {
		fmt.Fprintf(h.out, "%s finalized, champion: %s\n", view.Name, view.Champion.Name)
	} else {
		fmt.Fprintf(h.out, "%s finalized without a champion\n", view.Name)
	}
	return nil
}

// resolveWinner maps a participant id or name onto a slot of the match.
// Exact ids and names win over the p1/p2 aliases, which win over fuzzy
// matches of misspelt names.
func (h *ConsoleHandler) resolveWinner(ctx context.Context, matchID int, arg string) (brackets.Winner, error) {
	view, err := h.service.Get(ctx, h.bracketID)
	if err != nil {
		return brackets.Undecided, err
	}
	var match *services.MatchView
	for i := range view.Matches {
		if view.Matches[i].MatchID == matchID {
			match = &view.Matches[i]
			break
		}
	}
	if match == nil {
		return brackets.Undecided, fmt.Errorf("%w: match %d", services.ErrMatchNotFound, matchID)
	}

	// кандидаты: имя и id каждого занятого слота
	var targets []string
	var slots []brackets.Winner
	for _, c := range []struct {
		p    *services.ParticipantView
		slot brackets.Winner
	}{{match.Participant1, brackets.WinnerP1}, {match.Participant2, brackets.WinnerP2}} {
		if c.p == nil {
			continue
		}
		targets = append(targets, strings.ToLower(c.p.Name), strings.ToLower(c.p.ID))
		slots = append(slots, c.slot, c.slot)
	}

	lower := strings.ToLower(arg)
	for i, t := range targets {
		if t == lower {
			return slots[i], nil
		}
	}
	switch lower {
	case "p1":
		return brackets.WinnerP1, nil
	case "p2":
		return brackets.WinnerP2, nil
	}
	ranks := fuzzy.RankFind(lower, targets)
	if len(ranks) == 0 {
		return brackets.Undecided, fmt.Errorf("%w: %q does not play in match %d", services.ErrParticipantNotFound, arg, matchID)
	}
	sort.Sort(ranks)
	return slots[ranks[0].OriginalIndex], nil
}
